package prometheus

import (
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/viraptor/libremotec/pkg/metrics"
)

// dispatchMetrics is the Prometheus implementation of metrics.DispatchMetrics.
type dispatchMetrics struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	requestsInFlight    *prometheus.GaugeVec
	bytesSent           *prometheus.CounterVec
	connectionsAccepted prometheus.Counter
	connectionsClosed   prometheus.Counter
}

// NewDispatchMetrics creates a new Prometheus-backed DispatchMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry not called).
func NewDispatchMetrics() metrics.DispatchMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopDispatchMetrics()
	}

	reg := metrics.GetRegistry()

	return &dispatchMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "libremotec_requests_total",
				Help: "Total number of remote calls by operation, status, and error code",
			},
			[]string{"op", "status", "error_code"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "libremotec_request_duration_milliseconds",
				Help: "Duration of remote calls in milliseconds",
				Buckets: []float64{
					0.1,  // 100us
					1,    // 1ms
					10,   // 10ms
					100,  // 100ms
					1000, // 1s
				},
			},
			[]string{"op"},
		),
		requestsInFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "libremotec_requests_in_flight",
				Help: "Current number of remote calls being processed",
			},
			[]string{"op"},
		),
		bytesSent: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "libremotec_payload_bytes_sent_total",
				Help: "Total payload bytes returned to the client",
			},
			[]string{"op"},
		),
		connectionsAccepted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "libremotec_connections_accepted_total",
				Help: "Total number of client connections accepted",
			},
		),
		connectionsClosed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "libremotec_connections_closed_total",
				Help: "Total number of client connections closed",
			},
		),
	}
}

func (m *dispatchMetrics) RecordRequest(op string, duration time.Duration, errno int32) {
	status := "success"
	code := ""
	if errno != 0 {
		status = "error"
		code = errnoName(errno)
	}

	m.requestsTotal.WithLabelValues(op, status, code).Inc()
	m.requestDuration.WithLabelValues(op).Observe(duration.Seconds() * 1000) // Convert to milliseconds
}

func (m *dispatchMetrics) RecordRequestStart(op string) {
	m.requestsInFlight.WithLabelValues(op).Inc()
}

func (m *dispatchMetrics) RecordRequestEnd(op string) {
	m.requestsInFlight.WithLabelValues(op).Dec()
}

func (m *dispatchMetrics) RecordBytesSent(op string, bytes int64) {
	m.bytesSent.WithLabelValues(op).Add(float64(bytes))
}

func (m *dispatchMetrics) RecordConnectionAccepted() {
	m.connectionsAccepted.Inc()
}

func (m *dispatchMetrics) RecordConnectionClosed() {
	m.connectionsClosed.Inc()
}

// errnoName keeps the error_code label readable and bounded.
func errnoName(errno int32) string {
	switch syscall.Errno(errno) {
	case syscall.ENOENT:
		return "ENOENT"
	case syscall.EACCES:
		return "EACCES"
	case syscall.EBADF:
		return "EBADF"
	case syscall.EINVAL:
		return "EINVAL"
	case syscall.ENODATA:
		return "ENODATA"
	case syscall.ERANGE:
		return "ERANGE"
	case syscall.ENOTDIR:
		return "ENOTDIR"
	case syscall.EISDIR:
		return "EISDIR"
	case syscall.EMFILE:
		return "EMFILE"
	default:
		return strconv.Itoa(int(errno))
	}
}
