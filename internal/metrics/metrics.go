package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the case lifecycle. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	CasesCreated     *prometheus.CounterVec
	CaseTransitions  *prometheus.CounterVec
	CasesRejected    *prometheus.CounterVec
	QueueNumberDelay prometheus.Histogram
}

// New registers the case metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CasesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meeyqueue_cases_created_total",
			Help: "Total number of cases opened, by kiosk location",
		}, []string{"location"}),

		CaseTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meeyqueue_case_transitions_total",
			Help: "Total case mutations by event type and resulting value",
		}, []string{"event", "value"}),

		CasesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "meeyqueue_case_operations_rejected_total",
			Help: "Case operations refused by validation or state checks, by operation and error kind",
		}, []string{"operation", "kind"}),

		QueueNumberDelay: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "meeyqueue_queue_number_duration_seconds",
			Help:    "Duration of queue number allocation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementCreated(location string) {
	if m != nil {
		m.CasesCreated.WithLabelValues(location).Inc()
	}
}

func (m *Metrics) IncrementTransition(event, value string) {
	if m != nil {
		m.CaseTransitions.WithLabelValues(event, value).Inc()
	}
}

func (m *Metrics) IncrementRejected(operation, kind string) {
	if m != nil {
		m.CasesRejected.WithLabelValues(operation, kind).Inc()
	}
}

// ObserveQueueNumber records how long allocation took.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveQueueNumber(start time.Time) {
	if m != nil {
		m.QueueNumberDelay.Observe(time.Since(start).Seconds())
	}
}
