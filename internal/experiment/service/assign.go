package service

import (
	"context"
	"errors"

	"laurelin/internal/experiment/bucket"
	"laurelin/internal/experiment/models"
	"laurelin/pkg/platform/sentinel"
	"laurelin/pkg/requestcontext"
)

// Assign returns the variant for a user in an experiment, creating the durable
// assignment on first call. The state machine per (user, experiment) pair is
// Unassigned -> Assigned(variant), and the transition fires exactly once.
//
// Degradation: when the experiment is absent or paused, or when storage fails,
// the caller gets the control sentinel and nothing is persisted. A later call
// after the experiment activates (or storage recovers) performs real bucketing,
// so control is deliberately not sticky.
func (s *Service) Assign(ctx context.Context, userID, experimentName string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "experiment.Assign")
	defer span.End()

	if s.metrics != nil {
		s.metrics.IncrementAssignRequests()
	}

	// Fast path: repeat calls dominate in steady state.
	existing, err := s.assignments.GetExisting(ctx, userID, experimentName)
	if err == nil {
		return existing.Variant, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return s.controlFallback(ctx, userID, experimentName, "assignment lookup failed", err), nil
	}

	experiment, err := s.registry.Get(ctx, experimentName)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			if s.metrics != nil {
				s.metrics.IncrementControlFallbacks()
			}
			return models.ControlVariant, nil
		}
		return s.controlFallback(ctx, userID, experimentName, "experiment lookup failed", err), nil
	}
	if !experiment.IsActive() {
		if s.metrics != nil {
			s.metrics.IncrementControlFallbacks()
		}
		return models.ControlVariant, nil
	}

	candidate := &models.Assignment{
		UserID:         userID,
		ExperimentName: experimentName,
		Variant:        bucket.Variant(userID, experimentName, experiment.Variants),
		AssignedAt:     requestcontext.Now(ctx).UTC(),
	}

	current, created, err := s.assignments.CreateIfAbsent(ctx, candidate)
	if err != nil {
		// A failed write must not fabricate state; the caller is unblocked
		// with control and retries will bucket again.
		return s.controlFallback(ctx, userID, experimentName, "assignment create failed", err), nil
	}

	if created {
		if s.metrics != nil {
			s.metrics.IncrementAssignmentsCreated(experimentName, current.Variant)
		}
		s.logger.InfoContext(ctx, "assignment created",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"experiment", experimentName,
			"variant", current.Variant,
		)
	}

	// When a concurrent caller won the race, current carries the winner's
	// variant; never report a variant that disagrees with durable state.
	return current.Variant, nil
}

// controlFallback logs a storage failure for operational visibility and
// returns the never-persisted control sentinel.
func (s *Service) controlFallback(ctx context.Context, userID, experimentName, msg string, err error) string {
	if s.metrics != nil {
		s.metrics.IncrementControlFallbacks()
	}
	s.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"experiment", experimentName,
		"error", err.Error(),
	)
	return models.ControlVariant
}
