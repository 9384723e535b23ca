package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"laurelin/internal/experiment/models"
	dErrors "laurelin/pkg/domain-errors"
)

// ComputeResults aggregates all assignments and events for an experiment into
// per-variant counts. This is a full scan on every call; if scan cost ever
// becomes prohibitive the natural extension is incremental counters maintained
// at write time, keyed the same way as the returned maps.
//
// There is no safe default for a reporting query, so storage failures surface
// to the caller instead of degrading.
func (s *Service) ComputeResults(ctx context.Context, experimentName string) (*models.Results, error) {
	ctx, span := s.tracer.Start(ctx, "experiment.ComputeResults")
	defer span.End()

	if experimentName == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "experiment name is required")
	}

	var (
		assignments []*models.Assignment
		events      []*models.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		assignments, err = s.assignments.ListByExperiment(gctx, experimentName)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.events.ListByExperiment(gctx, experimentName)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load experiment results")
	}

	results := &models.Results{
		ExperimentName: experimentName,
		VariantCounts:  make(map[string]int),
		EventCounts:    make(map[string]map[string]int),
	}

	for _, assignment := range assignments {
		results.VariantCounts[assignment.Variant]++
	}
	results.TotalUsers = len(assignments)

	for _, event := range events {
		variant := event.Variant
		if variant == "" {
			variant = models.UnknownVariant
		}
		byType, ok := results.EventCounts[variant]
		if !ok {
			byType = make(map[string]int)
			results.EventCounts[variant] = byType
		}
		byType[event.EventType]++
	}
	results.TotalEvents = len(events)

	if s.metrics != nil {
		s.metrics.IncrementResultsComputations()
	}
	return results, nil
}
