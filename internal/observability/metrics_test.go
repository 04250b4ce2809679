package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/employees", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/employees", "GET", 200, 20*time.Millisecond)
	m.RecordError("CONFLICT")
	m.RecordMutation("create", "ok")
	m.RecordCacheLookup("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/employees", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("CONFLICT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("X")
		m.RecordMutation("delete", "ok")
		m.RecordCacheLookup("miss")
	})
	assert.NotNil(t, m.Handler())
}
