package prometheus

import (
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viraptor/libremotec/pkg/metrics"
)

func TestDispatchMetricsExported(t *testing.T) {
	metrics.InitRegistry()
	m := NewDispatchMetrics()

	m.RecordConnectionAccepted()
	m.RecordRequestStart("read")
	m.RecordRequest("read", 2*time.Millisecond, 0)
	m.RecordRequestEnd("read")
	m.RecordBytesSent("read", 10)
	m.RecordRequest("open", time.Millisecond, int32(syscall.ENOENT))
	m.RecordConnectionClosed()

	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["libremotec_requests_total"])
	assert.True(t, names["libremotec_payload_bytes_sent_total"])
	assert.True(t, names["libremotec_connections_accepted_total"])

	s := metrics.NewServer(metrics.ServerConfig{Port: 9192})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `error_code="ENOENT"`)
}

func TestErrnoName(t *testing.T) {
	assert.Equal(t, "EBADF", errnoName(int32(syscall.EBADF)))
	assert.Equal(t, "9999", errnoName(9999))
}
