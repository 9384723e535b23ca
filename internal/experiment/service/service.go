// Package service implements the experiment engine: idempotent variant
// assignment, event tracking, and results aggregation over the experiment,
// assignment, and event stores.
package service

import (
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"laurelin/internal/experiment/metrics"
	"laurelin/internal/experiment/store/assignment"
	"laurelin/internal/experiment/store/event"
	"laurelin/internal/experiment/store/registry"
	"laurelin/internal/experiment/stream"
)

// Service orchestrates experiment operations. All state lives in the injected
// stores; the service itself is stateless and safe for concurrent use.
type Service struct {
	registry    registry.Store
	assignments assignment.Store
	events      event.Store
	publisher   stream.Publisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPublisher sets the event stream publisher.
func WithPublisher(publisher stream.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.publisher = publisher
		}
	}
}

// WithMetrics sets the Prometheus metrics collection.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the experiment service. The three stores are required;
// logging, metrics, and stream publishing are optional.
func New(reg registry.Store, assignments assignment.Store, events event.Store, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, fmt.Errorf("experiment registry store is required")
	}
	if assignments == nil {
		return nil, fmt.Errorf("assignment store is required")
	}
	if events == nil {
		return nil, fmt.Errorf("event store is required")
	}

	svc := &Service{
		registry:    reg,
		assignments: assignments,
		events:      events,
		publisher:   stream.NoopPublisher{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:      otel.Tracer("laurelin/experiment"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}
