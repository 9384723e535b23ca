package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"laurelin/internal/experiment/models"
	dErrors "laurelin/pkg/domain-errors"
	"laurelin/pkg/platform/sentinel"
	"laurelin/pkg/requestcontext"
)

// Track appends an event to the experiment log, denormalizing the user's
// current variant onto the record. A user without an assignment is normal:
// the event is stored with the unknown variant. Tracking is fire-and-forget
// from the caller's side; failures are reported but roll nothing back.
func (s *Service) Track(ctx context.Context, userID, experimentName, eventType string, eventData map[string]any) error {
	ctx, span := s.tracer.Start(ctx, "experiment.Track")
	defer span.End()

	if eventType == "" {
		return dErrors.New(dErrors.CodeBadRequest, "event_type is required")
	}

	variant := models.UnknownVariant
	assignment, err := s.assignments.GetExisting(ctx, userID, experimentName)
	switch {
	case err == nil:
		variant = assignment.Variant
	case errors.Is(err, sentinel.ErrNotFound):
		// No assignment yet; keep unknown.
	default:
		// Denormalization is best-effort; a read failure downgrades the
		// variant tag rather than losing the event.
		s.logger.WarnContext(ctx, "variant denormalization failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"experiment", experimentName,
			"error", err.Error(),
		)
	}

	if eventData == nil {
		eventData = map[string]any{}
	}
	event := &models.Event{
		ID:             uuid.NewString(),
		UserID:         userID,
		ExperimentName: experimentName,
		EventType:      eventType,
		EventData:      eventData,
		Variant:        variant,
		Timestamp:      requestcontext.Now(ctx).UTC(),
	}

	if err := s.events.Append(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to track event")
	}

	if s.metrics != nil {
		s.metrics.IncrementEventsTracked(experimentName, eventType)
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementEventPublishErrors()
		}
		s.logger.WarnContext(ctx, "event stream publish failed",
			"request_id", requestcontext.RequestID(ctx),
			"experiment", experimentName,
			"event_type", eventType,
			"error", err.Error(),
		)
	}

	return nil
}
