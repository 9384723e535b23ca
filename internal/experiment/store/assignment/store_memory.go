package assignment

import (
	"context"
	"sync"

	"laurelin/internal/experiment/models"
	"laurelin/pkg/platform/sentinel"
)

type pairKey struct {
	userID         string
	experimentName string
}

// InMemory keeps assignments in a map guarded by a mutex. The single lock makes
// CreateIfAbsent atomic, mirroring the conditional insert of the Postgres store.
type InMemory struct {
	mu          sync.RWMutex
	assignments map[pairKey]*models.Assignment
}

// NewInMemory constructs an empty in-memory assignment store.
func NewInMemory() *InMemory {
	return &InMemory{assignments: make(map[pairKey]*models.Assignment)}
}

func (s *InMemory) GetExisting(_ context.Context, userID, experimentName string) (*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, ok := s.assignments[pairKey{userID, experimentName}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copy := *assignment
	return &copy, nil
}

func (s *InMemory) CreateIfAbsent(_ context.Context, candidate *models.Assignment) (*models.Assignment, bool, error) {
	key := pairKey{candidate.UserID, candidate.ExperimentName}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.assignments[key]; ok {
		copy := *existing
		return &copy, false, nil
	}
	stored := *candidate
	s.assignments[key] = &stored
	copy := stored
	return &copy, true, nil
}

func (s *InMemory) ListByExperiment(_ context.Context, experimentName string) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Assignment
	for key, assignment := range s.assignments {
		if key.experimentName == experimentName {
			copy := *assignment
			out = append(out, &copy)
		}
	}
	return out, nil
}
