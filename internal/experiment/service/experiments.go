package service

import (
	"context"
	"errors"

	"laurelin/internal/experiment/models"
	dErrors "laurelin/pkg/domain-errors"
	"laurelin/pkg/platform/sentinel"
	"laurelin/pkg/requestcontext"
)

// CreateExperiment validates and stores a new experiment definition.
// Malformed configuration is rejected here so bucketing never sees it.
func (s *Service) CreateExperiment(ctx context.Context, experiment *models.Experiment) error {
	if err := experiment.Validate(); err != nil {
		return err
	}
	if experiment.Status == "" {
		experiment.Status = models.StatusActive
	}
	if !experiment.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be active or paused")
	}

	now := requestcontext.Now(ctx).UTC()
	experiment.CreatedAt = now
	experiment.UpdatedAt = now

	if err := s.registry.Create(ctx, experiment); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "experiment already exists")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to create experiment")
	}

	s.logger.InfoContext(ctx, "experiment created",
		"experiment", experiment.Name,
		"variants", len(experiment.Variants),
	)
	return nil
}

// GetExperiment returns one experiment definition.
func (s *Service) GetExperiment(ctx context.Context, name string) (*models.Experiment, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "experiment name is required")
	}
	experiment, err := s.registry.Get(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "experiment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load experiment")
	}
	return experiment, nil
}

// ListExperiments returns all experiment definitions.
func (s *Service) ListExperiments(ctx context.Context) ([]*models.Experiment, error) {
	experiments, err := s.registry.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list experiments")
	}
	return experiments, nil
}

// SetExperimentStatus activates or pauses an experiment.
func (s *Service) SetExperimentStatus(ctx context.Context, name string, status models.ExperimentStatus) error {
	if name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "experiment name is required")
	}
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "status must be active or paused")
	}
	if err := s.registry.SetStatus(ctx, name, status); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "experiment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to update experiment status")
	}

	s.logger.InfoContext(ctx, "experiment status updated",
		"experiment", name,
		"status", string(status),
	)
	return nil
}

// SeedDefaults creates the default model comparison experiment if it does not
// already exist. Called at startup when AB testing is enabled.
func (s *Service) SeedDefaults(ctx context.Context) error {
	err := s.CreateExperiment(ctx, &models.Experiment{
		Name: "model_comparison",
		Variants: map[string]float64{
			"openai": 0.5,
			"google": 0.5,
		},
		Status:      models.StatusActive,
		Description: "Compare OpenAI GPT vs Google Gemini performance",
	})
	if err != nil && !dErrors.HasCode(err, dErrors.CodeConflict) {
		return err
	}
	return nil
}
