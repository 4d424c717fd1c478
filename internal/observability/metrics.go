package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	routingOutcomes *prometheus.CounterVec
	escalations     *prometheus.CounterVec
}

// Routing outcome labels.
const (
	RoutingAssigned    = "assigned"
	RoutingNoInput     = "no_input"
	RoutingNoCandidate = "no_candidate"
	RoutingFailed      = "failed"
)

// NewMetrics registers collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itsm_http_requests_total",
			Help: "HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "itsm_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errorCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itsm_http_errors_total",
			Help: "HTTP error responses by domain error code.",
		}, []string{"path", "method", "code"}),
		routingOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itsm_routing_decisions_total",
			Help: "Category routing decisions by outcome.",
		}, []string{"outcome"}),
		escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itsm_escalations_total",
			Help: "Ticket escalations by target type and result.",
		}, []string{"target_type", "result"}),
	}
	m.registry.MustRegister(m.requestCount, m.requestDuration, m.errorCount, m.routingOutcomes, m.escalations)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordRouting counts a routing decision.
func (m *Metrics) RecordRouting(outcome string) {
	if m == nil {
		return
	}
	m.routingOutcomes.WithLabelValues(outcome).Inc()
}

// RecordEscalation counts an escalation attempt.
func (m *Metrics) RecordEscalation(targetType, result string) {
	if m == nil {
		return
	}
	m.escalations.WithLabelValues(targetType, result).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
