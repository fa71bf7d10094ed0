package config

import (
	"github.com/viraptor/libremotec/pkg/metrics"
	promMetrics "github.com/viraptor/libremotec/pkg/metrics/prometheus"
)

// MetricsResult contains all metrics-related components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server

	// DispatchMetrics is the collector for the dispatch server (never nil, uses noop if disabled)
	DispatchMetrics metrics.DispatchMetrics
}

// InitializeMetrics creates the metrics components for the server section.
// status, when set, is shown on the metrics index page; serve passes the
// dispatch server's state.
//
// If metrics are disabled the server is nil and the collector is a no-op.
func InitializeMetrics(cfg *Config, status func() string) *MetricsResult {
	if !cfg.Server.Metrics.Enabled {
		return &MetricsResult{
			Server:          nil,
			DispatchMetrics: metrics.NewNoopDispatchMetrics(),
		}
	}

	metrics.InitRegistry()

	server := metrics.NewServer(metrics.ServerConfig{
		Port:   cfg.Server.Metrics.Port,
		Status: status,
	})

	return &MetricsResult{
		Server:          server,
		DispatchMetrics: promMetrics.NewDispatchMetrics(),
	}
}
