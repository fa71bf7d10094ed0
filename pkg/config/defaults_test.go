package config

import "testing"

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "warn", Output: "/var/log/libremotec.log"},
		Transport: TransportConfig{
			Type: "tcp",
			TCP:  map[string]any{"host": "srv", "port": 7000},
		},
		Client: ClientConfig{MaxOpen: 64, FDOffset: 4096, CwdPolicy: "Reject"},
		Server: ServerConfig{MaxReadSize: 4096},
	}

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level normalized to 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "/var/log/libremotec.log" {
		t.Errorf("Output overwritten: %q", cfg.Logging.Output)
	}
	if cfg.Transport.TCP["port"] != 7000 {
		t.Errorf("Port overwritten: %v", cfg.Transport.TCP["port"])
	}
	if cfg.Client.MaxOpen != 64 || cfg.Client.FDOffset != 4096 {
		t.Errorf("Client values overwritten: %+v", cfg.Client)
	}
	if cfg.Client.CwdPolicy != "reject" {
		t.Errorf("Expected cwd_policy normalized to 'reject', got %q", cfg.Client.CwdPolicy)
	}
	if cfg.Server.MaxReadSize != 4096 {
		t.Errorf("MaxReadSize overwritten: %d", cfg.Server.MaxReadSize)
	}
}

func TestApplyDefaults_FillsEveryTransport(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Transport.TCP["port"] != 12345 {
		t.Errorf("Expected default tcp port 12345, got %v", cfg.Transport.TCP["port"])
	}
	if cfg.Transport.Unix["path"] == nil {
		t.Error("Expected a default unix socket path")
	}
}
