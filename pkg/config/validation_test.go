package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "INVALID"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid log format")
	}
}

func TestValidate_InvalidTransportType(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Transport.Type = "udp"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for invalid transport type")
	}
}

func TestValidate_UnixTransportRequiresPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Transport.Type = "unix"
	cfg.Transport.Unix = map[string]any{}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for unix transport without path")
	}
	if !strings.Contains(err.Error(), "path is required") {
		t.Errorf("Expected 'path is required' error, got: %v", err)
	}
}

func TestValidate_TCPPortOutOfRange(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Transport.TCP["port"] = 70000

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for port out of range")
	}
}

func TestValidate_InvalidCwdPolicy(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Client.CwdPolicy = "nearby"

	if err := Validate(cfg); err == nil {
		t.Fatal("Expected validation error for unknown cwd policy")
	}
}

func TestValidate_FDOffsetMustClearStandardStreams(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Client.FDOffset = 2

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for fd_offset 2")
	}
	if !strings.Contains(err.Error(), "FDOffset") {
		t.Errorf("Expected error to name FDOffset, got: %v", err)
	}
}

func TestValidate_MetricsPortClash(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.Metrics.Enabled = true
	cfg.Server.Metrics.Port = 12345

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for metrics port equal to transport port")
	}
	if !strings.Contains(err.Error(), "already used") {
		t.Errorf("Expected 'already used' error, got: %v", err)
	}
}

func TestValidate_MaxReadSizeFitsResult(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.MaxReadSize = 1 << 31

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error for max_read_size above int32")
	}
	if !strings.Contains(err.Error(), "lte") {
		t.Errorf("Expected 'lte' validation error, got: %v", err)
	}

	cfg.Server.MaxReadSize = 1<<31 - 1
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected int32 maximum to pass, got: %v", err)
	}
}
