package observability

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordUpstream("GET", 200, time.Millisecond)
		m.RecordEviction("expired")
		m.RecordRoute("allowed")
		m.RecordError("INTERNAL_ERROR")
	})
}

func TestMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordUpstream("GET", 200, 10*time.Millisecond)
	m.RecordUpstream("GET", 0, time.Second)
	m.RecordEviction("expired")
	m.RecordEviction("expired")
	m.RecordRoute("redirected")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("GET", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.evictions.WithLabelValues("expired")))

	expected := `
# HELP scalebit_console_route_decisions_total Navigation decisions by outcome.
# TYPE scalebit_console_route_decisions_total counter
scalebit_console_route_decisions_total{outcome="redirected"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "scalebit_console_route_decisions_total"))
}
