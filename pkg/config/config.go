package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete libremotec configuration.
//
// The same file configures both halves of a deployment: the client side
// (which paths stay local, where the dispatch server lives) and the server
// side (where to listen, read limits, metrics).
//
// Configuration sources (in order of precedence):
//  1. Environment variables (LIBREMOTEC_*, plus REMOTE_SERVER and LOCAL_PATHS)
//  2. Configuration file (YAML or TOML)
//  3. Default values (lowest priority)
//
// Transport Configuration Pattern:
// The transport section carries a type and one type-specific map per
// transport (transport.tcp, transport.unix). Only the map matching the
// selected type is decoded.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Transport selects how client and server reach each other
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`

	// Client contains settings used by the routing layer
	Client ClientConfig `mapstructure:"client" yaml:"client"`

	// Server contains settings used by the dispatch server
	Server ServerConfig `mapstructure:"server" yaml:"server"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output. DEBUG traces every routing
	// decision and remote call.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// TransportConfig specifies the stream transport.
type TransportConfig struct {
	// Type specifies which transport to use
	// Valid values: tcp, unix
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=tcp unix"`

	// TCP contains tcp-specific configuration (host, port)
	// Only used when Type = "tcp"
	TCP map[string]any `mapstructure:"tcp" yaml:"tcp"`

	// Unix contains unix-socket-specific configuration (path)
	// Only used when Type = "unix"
	Unix map[string]any `mapstructure:"unix" yaml:"unix"`
}

// ClientConfig contains routing settings.
type ClientConfig struct {
	// LocalPaths is a colon separated list of path prefixes that stay on
	// this host. Everything else is sent to the dispatch server.
	LocalPaths string `mapstructure:"local_paths" yaml:"local_paths"`

	// MaxOpen is the number of remote descriptors a process may hold
	MaxOpen int `mapstructure:"max_open" yaml:"max_open" validate:"required,gt=0,lte=65536"`

	// FDOffset is the first synthetic descriptor number
	FDOffset int `mapstructure:"fd_offset" yaml:"fd_offset" validate:"required,gt=2"`

	// CwdPolicy decides how relative remote paths are treated
	// Valid values: server, caller, reject
	CwdPolicy string `mapstructure:"cwd_policy" yaml:"cwd_policy" validate:"required,oneof=server caller reject"`
}

// ServerConfig contains dispatch server settings.
type ServerConfig struct {
	// MaxReadSize clamps read and getxattr lengths, in bytes
	MaxReadSize int `mapstructure:"max_read_size" yaml:"max_read_size" validate:"required,gt=0,lte=2147483647"`

	// RateLimit throttles the calls a session executes
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`

	// Metrics configures the Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// RateLimitConfig configures call throttling.
type RateLimitConfig struct {
	// CallsPerSecond is the sustained call rate (0 = unlimited)
	CallsPerSecond uint `mapstructure:"calls_per_second" yaml:"calls_per_second"`

	// Burst is the number of calls allowed in a spike (0 = calls_per_second)
	Burst uint `mapstructure:"burst" yaml:"burst"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Enabled turns on metrics collection and the HTTP endpoint
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port for /metrics
	Port int `mapstructure:"port" yaml:"port" validate:"omitempty,min=1,max=65535"`
}

// envKeys lists every scalar key that can be set from the environment.
// viper only maps LIBREMOTEC_* variables onto keys it already knows.
var envKeys = []string{
	"logging.level",
	"logging.format",
	"logging.output",
	"transport.type",
	"transport.tcp.host",
	"transport.tcp.port",
	"transport.unix.path",
	"client.local_paths",
	"client.max_open",
	"client.fd_offset",
	"client.cwd_policy",
	"server.max_read_size",
	"server.rate_limit.calls_per_second",
	"server.rate_limit.burst",
	"server.metrics.enabled",
	"server.metrics.port",
}

// envAliases maps keys to the unprefixed variables older deployments use.
var envAliases = map[string]string{
	"transport.tcp.host": "REMOTE_SERVER",
	"client.local_paths": "LOCAL_PATHS",
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	if err := setupViper(v, configPath); err != nil {
		return nil, err
	}

	// Read configuration file if it exists
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) error {
	// Environment variables use LIBREMOTEC_ prefix and underscores
	// Example: LIBREMOTEC_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("LIBREMOTEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		names := []string{key, "LIBREMOTEC_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if alias, ok := envAliases[key]; ok {
			names = append(names, alias)
		}
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// Configure config file search
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/libremotec/config.{yaml,toml}
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	return nil
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found is acceptable - use defaults
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "libremotec")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "libremotec")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}
