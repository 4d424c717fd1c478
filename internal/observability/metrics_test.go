package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRouting(RoutingAssigned)
	m.RecordRouting(RoutingAssigned)
	m.RecordRouting(RoutingNoCandidate)
	m.RecordEscalation("user", "ok")
	m.RecordRequest("/tickets/:id/route", "POST", 200, 10*time.Millisecond)
	m.RecordError("/tickets/:id/escalate", "POST", "FORBIDDEN")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.routingOutcomes.WithLabelValues(RoutingAssigned)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.routingOutcomes.WithLabelValues(RoutingNoCandidate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.escalations.WithLabelValues("user", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/tickets/:id/escalate", "POST", "FORBIDDEN")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRouting(RoutingFailed)
		m.RecordEscalation("user", "error")
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "INTERNAL_ERROR")
	})
}
