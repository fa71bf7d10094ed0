package config

import (
	"strings"

	"github.com/viraptor/libremotec/internal/protocol/wire"
	"github.com/viraptor/libremotec/pkg/client"
	"github.com/viraptor/libremotec/pkg/server"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Transport-specific defaults are filled for every transport type so a
//     generated config file shows all of them
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTransportDefaults(&cfg.Transport)
	applyClientDefaults(&cfg.Client)
	applyServerDefaults(&cfg.Server)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTransportDefaults sets transport defaults.
func applyTransportDefaults(cfg *TransportConfig) {
	if cfg.Type == "" {
		cfg.Type = "tcp"
	}

	if cfg.TCP == nil {
		cfg.TCP = make(map[string]any)
	}
	if cfg.Unix == nil {
		cfg.Unix = make(map[string]any)
	}

	if _, ok := cfg.TCP["port"]; !ok {
		cfg.TCP["port"] = wire.DefaultPort
	}
	if _, ok := cfg.Unix["path"]; !ok {
		cfg.Unix["path"] = "/tmp/libremotec.sock"
	}
}

// applyClientDefaults sets routing defaults.
func applyClientDefaults(cfg *ClientConfig) {
	if cfg.MaxOpen == 0 {
		cfg.MaxOpen = client.DefaultMaxOpen
	}
	if cfg.FDOffset == 0 {
		cfg.FDOffset = client.DefaultFDOffset
	}
	if cfg.CwdPolicy == "" {
		cfg.CwdPolicy = "server"
	}
	cfg.CwdPolicy = strings.ToLower(cfg.CwdPolicy)
}

// applyServerDefaults sets dispatch server defaults.
func applyServerDefaults(cfg *ServerConfig) {
	if cfg.MaxReadSize == 0 {
		cfg.MaxReadSize = server.DefaultMaxReadSize
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Transport.TCP["host"] = "localhost"
	return cfg
}
