package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/viraptor/libremotec/internal/logger"
	"github.com/viraptor/libremotec/internal/protocol/wire"
	"github.com/viraptor/libremotec/pkg/client"
	"github.com/viraptor/libremotec/pkg/hostfs"
	"github.com/viraptor/libremotec/pkg/metrics"
	"github.com/viraptor/libremotec/pkg/server"
)

// tcpTransportConfig is the decoded form of transport.tcp.
type tcpTransportConfig struct {
	// Host is the dispatch server the client dials. It may carry a port
	// ("host:port"), which overrides Port.
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// unixTransportConfig is the decoded form of transport.unix.
type unixTransportConfig struct {
	Path string `mapstructure:"path"`
}

// decodeOptions decodes a type-specific map. Values coming from the
// environment are strings, so weak typing is enabled.
func decodeOptions(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(options)
}

func decodeTCP(options map[string]any) (tcpTransportConfig, error) {
	var cfg tcpTransportConfig
	if err := decodeOptions(options, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode tcp transport config: %w", err)
	}

	if host, port, err := net.SplitHostPort(cfg.Host); err == nil {
		p, err := strconv.Atoi(port)
		if err != nil {
			return cfg, fmt.Errorf("tcp transport: invalid port in host %q", cfg.Host)
		}
		cfg.Host, cfg.Port = host, p
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("tcp transport: port %d out of range", cfg.Port)
	}
	return cfg, nil
}

func decodeUnix(options map[string]any) (unixTransportConfig, error) {
	var cfg unixTransportConfig
	if err := decodeOptions(options, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode unix transport config: %w", err)
	}
	if cfg.Path == "" {
		return cfg, fmt.Errorf("unix transport: path is required")
	}
	return cfg, nil
}

// decodeTransport turns the transport section into an endpoint.
//
// Supported types:
//   - "tcp": host and port; the server binds all interfaces on port
//   - "unix": a socket path shared by both sides
func decodeTransport(cfg *TransportConfig) (wire.Endpoint, error) {
	switch cfg.Type {
	case "tcp":
		tcp, err := decodeTCP(cfg.TCP)
		if err != nil {
			return wire.Endpoint{}, err
		}
		return wire.Endpoint{Network: "tcp", Address: tcp.Host, Port: tcp.Port}, nil
	case "unix":
		unix, err := decodeUnix(cfg.Unix)
		if err != nil {
			return wire.Endpoint{}, err
		}
		return wire.Endpoint{Network: "unix", Address: unix.Path}, nil
	default:
		return wire.Endpoint{}, fmt.Errorf("unknown transport type: %q", cfg.Type)
	}
}

// Endpoint returns the transport endpoint described by cfg.
func Endpoint(cfg *Config) (wire.Endpoint, error) {
	return decodeTransport(&cfg.Transport)
}

// NewRouter creates the client routing layer from configuration.
//
// The connection to the dispatch server is not opened here; it is dialled
// on the first remote call. fatal may be nil to use client.ExitOnFatal.
func NewRouter(cfg *Config, fatal client.FatalHandler) (*client.Router, error) {
	ep, err := Endpoint(cfg)
	if err != nil {
		return nil, err
	}

	policy, err := client.ParseCwdPolicy(cfg.Client.CwdPolicy)
	if err != nil {
		return nil, err
	}

	allow := client.ParseAllowList(cfg.Client.LocalPaths)
	logger.Debug("Routing: local prefixes %v, remote %s, cwd policy %s", allow.Prefixes(), ep, policy)

	return client.NewRouter(client.Options{
		AllowList: allow,
		Local:     hostfs.Host{},
		Remote:    client.NewRemote(ep),
		MaxOpen:   cfg.Client.MaxOpen,
		FDOffset:  cfg.Client.FDOffset,
		CwdPolicy: policy,
		Fatal:     fatal,
	}), nil
}

// NewServer creates the dispatch server from configuration. m may be nil.
func NewServer(cfg *Config, m metrics.DispatchMetrics) (*server.Server, error) {
	ep, err := Endpoint(cfg)
	if err != nil {
		return nil, err
	}

	return server.New(server.Config{
		Endpoint:       ep,
		MaxReadSize:    cfg.Server.MaxReadSize,
		CallsPerSecond: cfg.Server.RateLimit.CallsPerSecond,
		Burst:          cfg.Server.RateLimit.Burst,
	}, hostfs.Host{}, m), nil
}

// ConfigureLogging applies the logging section to the process logger.
func ConfigureLogging(cfg *Config) error {
	w, err := logger.Open(cfg.Logging.Output)
	if err != nil {
		return err
	}
	logger.SetOutput(w)
	logger.SetFormat(cfg.Logging.Format)
	logger.SetLevel(cfg.Logging.Level)
	return nil
}
