// Package metrics exposes dispatch server statistics to Prometheus.
//
// Collection is off until InitRegistry is called. Until then collectors
// fall back to no-op implementations and /metrics answers 503, so a
// server started without metrics pays nothing per call.
//
//	metrics.InitRegistry()
//	m := prometheus.NewDispatchMetrics()
//	srv := server.New(cfg, hostfs.Host{}, m)
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry creates the process registry. Later calls are no-ops, so
// collectors registered against the first registry stay visible.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the process registry, or nil before InitRegistry.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether InitRegistry has run.
func IsEnabled() bool {
	return GetRegistry() != nil
}

// Handler serves the registry in the Prometheus exposition format, or a
// 503 when collection is off.
func Handler() http.Handler {
	if reg := GetRegistry(); reg != nil {
		return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprintln(w, "metrics collection is disabled")
	})
}
