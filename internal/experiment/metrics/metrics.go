package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the experiment engine.
type Metrics struct {
	AssignmentsCreated  *prometheus.CounterVec
	AssignRequests      prometheus.Counter
	ControlFallbacks    prometheus.Counter
	EventsTracked       *prometheus.CounterVec
	EventPublishErrors  prometheus.Counter
	ResultsComputations prometheus.Counter
}

// New creates and registers all experiment metrics.
func New() *Metrics {
	return &Metrics{
		AssignmentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelin_experiment_assignments_created_total",
			Help: "First-time assignments persisted, by experiment and variant",
		}, []string{"experiment", "variant"}),
		AssignRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "laurelin_experiment_assign_requests_total",
			Help: "Total assign calls including idempotent repeats",
		}),
		ControlFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "laurelin_experiment_control_fallbacks_total",
			Help: "Assign calls that returned the control sentinel without persisting",
		}),
		EventsTracked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "laurelin_experiment_events_tracked_total",
			Help: "Events appended to the log, by experiment and event type",
		}, []string{"experiment", "event_type"}),
		EventPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "laurelin_experiment_event_publish_errors_total",
			Help: "Event stream publish failures (non-fatal to tracking)",
		}),
		ResultsComputations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "laurelin_experiment_results_computations_total",
			Help: "Results aggregation scans executed",
		}),
	}
}

func (m *Metrics) IncrementAssignmentsCreated(experiment, variant string) {
	m.AssignmentsCreated.WithLabelValues(experiment, variant).Inc()
}

func (m *Metrics) IncrementAssignRequests() {
	m.AssignRequests.Inc()
}

func (m *Metrics) IncrementControlFallbacks() {
	m.ControlFallbacks.Inc()
}

func (m *Metrics) IncrementEventsTracked(experiment, eventType string) {
	m.EventsTracked.WithLabelValues(experiment, eventType).Inc()
}

func (m *Metrics) IncrementEventPublishErrors() {
	m.EventPublishErrors.Inc()
}

func (m *Metrics) IncrementResultsComputations() {
	m.ResultsComputations.Inc()
}
