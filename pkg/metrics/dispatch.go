package metrics

import "time"

// DispatchMetrics provides observability for the dispatch server.
//
// Implementations can collect per-operation request counts and latency,
// payload throughput and the connection lifecycle. The server uses a no-op
// implementation when none is provided.
//
// Example usage:
//
//	metrics.InitRegistry()
//	srv := server.New(cfg, hostfs.Host{}, prometheus.NewDispatchMetrics())
//
//	// Without metrics
//	srv := server.New(cfg, hostfs.Host{}, nil)
type DispatchMetrics interface {
	// RecordRequest records a completed call with its operation name,
	// duration and remote error code. errno is zero on success.
	RecordRequest(op string, duration time.Duration, errno int32)

	// RecordRequestStart increments the in-flight gauge for op.
	RecordRequestStart(op string)

	// RecordRequestEnd decrements the in-flight gauge for op.
	RecordRequestEnd(op string)

	// RecordBytesSent records payload bytes returned for op.
	RecordBytesSent(op string, bytes int64)

	// RecordConnectionAccepted increments the accepted connections counter.
	RecordConnectionAccepted()

	// RecordConnectionClosed increments the closed connections counter.
	RecordConnectionClosed()
}

// NewNoopDispatchMetrics returns a DispatchMetrics that records nothing.
func NewNoopDispatchMetrics() DispatchMetrics {
	return noopDispatchMetrics{}
}

// noopDispatchMetrics is a no-op implementation of DispatchMetrics with zero overhead.
type noopDispatchMetrics struct{}

func (noopDispatchMetrics) RecordRequest(op string, duration time.Duration, errno int32) {}
func (noopDispatchMetrics) RecordRequestStart(op string)                                 {}
func (noopDispatchMetrics) RecordRequestEnd(op string)                                   {}
func (noopDispatchMetrics) RecordBytesSent(op string, bytes int64)                       {}
func (noopDispatchMetrics) RecordConnectionAccepted()                                    {}
func (noopDispatchMetrics) RecordConnectionClosed()                                      {}
