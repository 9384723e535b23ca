package registry

import (
	"context"
	"maps"
	"sync"
	"time"

	"laurelin/internal/experiment/models"
	"laurelin/pkg/platform/sentinel"
)

// InMemory keeps experiment definitions in a map for tests and local runs.
type InMemory struct {
	mu          sync.RWMutex
	experiments map[string]*models.Experiment
}

// NewInMemory constructs an empty in-memory registry.
func NewInMemory() *InMemory {
	return &InMemory{experiments: make(map[string]*models.Experiment)}
}

func (s *InMemory) Create(_ context.Context, experiment *models.Experiment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.experiments[experiment.Name]; exists {
		return sentinel.ErrConflict
	}
	s.experiments[experiment.Name] = cloneExperiment(experiment)
	return nil
}

func (s *InMemory) Get(_ context.Context, name string) (*models.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	experiment, ok := s.experiments[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneExperiment(experiment), nil
}

func (s *InMemory) SetStatus(_ context.Context, name string, status models.ExperimentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	experiment, ok := s.experiments[name]
	if !ok {
		return sentinel.ErrNotFound
	}
	experiment.Status = status
	experiment.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Experiment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Experiment, 0, len(s.experiments))
	for _, experiment := range s.experiments {
		out = append(out, cloneExperiment(experiment))
	}
	return out, nil
}

// cloneExperiment guards callers against aliasing the stored variant map.
func cloneExperiment(e *models.Experiment) *models.Experiment {
	clone := *e
	clone.Variants = maps.Clone(e.Variants)
	return &clone
}
