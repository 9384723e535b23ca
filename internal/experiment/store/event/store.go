// Package event stores tracked experiment events. Events are append-only:
// there is no update or delete, and rows are only ever read back in bulk by the
// results aggregation path.
package event

import (
	"context"

	"laurelin/internal/experiment/models"
)

// Store is the append-only event log.
type Store interface {
	Append(ctx context.Context, event *models.Event) error
	ListByExperiment(ctx context.Context, experimentName string) ([]*models.Event, error)
}
