package event

import (
	"context"
	"maps"
	"sync"

	"laurelin/internal/experiment/models"
)

// InMemory keeps events in an append-only slice for tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	events []*models.Event
}

// NewInMemory constructs an empty in-memory event log.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, cloneEvent(event))
	return nil
}

func (s *InMemory) ListByExperiment(_ context.Context, experimentName string) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Event
	for _, event := range s.events {
		if event.ExperimentName == experimentName {
			out = append(out, cloneEvent(event))
		}
	}
	return out, nil
}

func cloneEvent(e *models.Event) *models.Event {
	clone := *e
	clone.EventData = maps.Clone(e.EventData)
	return &clone
}
