package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the gateway, the session façade and event publishing.
type Metrics struct {
	// Backend query latency by operation
	FetchLatency *prometheus.HistogramVec

	// Backend query failures by operation
	FetchFailures *prometheus.CounterVec

	// Auth operations by operation and outcome
	AuthOutcomes *prometheus.CounterVec

	// Domain events by type and result
	EventsPublished *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "etalase_gateway_fetch_duration_seconds",
			Help:    "Duration of document store queries by operation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"op"}),

		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etalase_gateway_fetch_failures_total",
			Help: "Total failed document store queries by operation",
		}, []string{"op"}),

		AuthOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etalase_auth_outcomes_total",
			Help: "Total auth operations by operation and outcome",
		}, []string{"op", "outcome"}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "etalase_events_published_total",
			Help: "Total domain events by type and result",
		}, []string{"type", "result"}),
	}
}

// ObserveFetch records a query duration and, on failure, a failure.
func (m *Metrics) ObserveFetch(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FetchLatency.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		m.FetchFailures.WithLabelValues(op).Inc()
	}
}

// IncrementAuth records the outcome of an auth operation.
func (m *Metrics) IncrementAuth(op, outcome string) {
	if m != nil {
		m.AuthOutcomes.WithLabelValues(op, outcome).Inc()
	}
}

// IncrementEvent records a publish attempt.
func (m *Metrics) IncrementEvent(eventType, result string) {
	if m != nil {
		m.EventsPublished.WithLabelValues(eventType, result).Inc()
	}
}
