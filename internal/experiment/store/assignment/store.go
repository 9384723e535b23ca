// Package assignment stores the variant each user received for an experiment.
//
// The (user, experiment) pair is a natural key and the store owns the invariant
// that at most one row ever exists for it. CreateIfAbsent is the only write and
// must be atomic at the storage layer: a plain read-then-write in application
// code races when two requests for the same new user arrive concurrently.
package assignment

import (
	"context"

	"laurelin/internal/experiment/models"
)

// Store is the durable (user, experiment) -> variant mapping.
//
// GetExisting returns sentinel.ErrNotFound when the pair has no assignment;
// absence is a normal state, not a failure. CreateIfAbsent returns the
// assignment that is durably current after the call and whether this call
// created it. When a concurrent caller wins the race, the returned assignment
// is the winner's, not the caller's candidate.
type Store interface {
	GetExisting(ctx context.Context, userID, experimentName string) (*models.Assignment, error)
	CreateIfAbsent(ctx context.Context, candidate *models.Assignment) (*models.Assignment, bool, error)
	ListByExperiment(ctx context.Context, experimentName string) ([]*models.Assignment, error)
}
