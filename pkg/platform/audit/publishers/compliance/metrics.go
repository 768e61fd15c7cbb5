package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for workflow event persistence.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

// NewMetrics registers workflow event metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bankeu_workflow_events_emitted_total",
			Help: "Total number of workflow events written to the outbox",
		}, []string{"type"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "bankeu_workflow_events_persist_failures_total",
			Help: "Total number of workflow event outbox write failures",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankeu_workflow_events_persist_duration_seconds",
			Help:    "Duration of outbox writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

func (m *Metrics) IncEventsEmitted(eventType string) {
	m.EventsEmitted.WithLabelValues(eventType).Inc()
}

func (m *Metrics) IncPersistFailures() {
	m.PersistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(seconds float64) {
	m.PersistDuration.Observe(seconds)
}
