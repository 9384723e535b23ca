// Package registry stores experiment definitions. Definitions are read-mostly:
// the Assigner consults them on every first-time assignment, while writes come
// only from the administrative path.
package registry

import (
	"context"

	"laurelin/internal/experiment/models"
)

// Store is the durable registry of experiment definitions.
//
// Create returns sentinel.ErrConflict when the name is taken. Get and SetStatus
// return sentinel.ErrNotFound for unknown experiments. Reads reflect the latest
// committed write; brief caching (seconds-scale) is acceptable and provided by
// the Cache decorator, never by the base implementations.
type Store interface {
	Create(ctx context.Context, experiment *models.Experiment) error
	Get(ctx context.Context, name string) (*models.Experiment, error)
	SetStatus(ctx context.Context, name string, status models.ExperimentStatus) error
	List(ctx context.Context) ([]*models.Experiment, error)
}
