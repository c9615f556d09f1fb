package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects console counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	evictions        *prometheus.CounterVec
	routeDecisions   *prometheus.CounterVec
	requestErrors    *prometheus.CounterVec
}

// NewMetrics registers collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scalebit_console_upstream_requests_total",
			Help: "Requests sent to the API gateway by method and status.",
		}, []string{"method", "status"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scalebit_console_upstream_latency_seconds",
			Help:    "API gateway round-trip latency.",
			Buckets: prometheus.DefBuckets,
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scalebit_console_token_evictions_total",
			Help: "Stored tokens cleared, by reason.",
		}, []string{"reason"}),
		routeDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scalebit_console_route_decisions_total",
			Help: "Navigation decisions by outcome.",
		}, []string{"outcome"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scalebit_console_request_errors_total",
			Help: "Console requests that ended in an error, by code.",
		}, []string{"code"}),
	}

	reg.MustRegister(
		m.upstreamRequests,
		m.upstreamLatency,
		m.evictions,
		m.routeDecisions,
		m.requestErrors,
	)
	return m
}

// RecordUpstream counts a gateway round trip. status 0 means no response was received.
func (m *Metrics) RecordUpstream(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(method, label).Inc()
	m.upstreamLatency.Observe(duration.Seconds())
}

// RecordEviction counts a cleared token.
func (m *Metrics) RecordEviction(reason string) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(reason).Inc()
}

// RecordRoute counts a navigation decision ("allowed" or "redirected").
func (m *Metrics) RecordRoute(outcome string) {
	if m == nil {
		return
	}
	m.routeDecisions.WithLabelValues(outcome).Inc()
}

// RecordError counts a failed console request.
func (m *Metrics) RecordError(code string) {
	if m == nil {
		return
	}
	m.requestErrors.WithLabelValues(code).Inc()
}
