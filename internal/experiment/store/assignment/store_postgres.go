package assignment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"laurelin/internal/experiment/models"
	"laurelin/pkg/platform/sentinel"
)

// PostgresStore persists assignments in PostgreSQL. Atomicity of CreateIfAbsent
// rests on the UNIQUE (user_id, experiment_name) constraint: the conditional
// insert either lands the row or touches nothing, and the losing writer reads
// back whichever row won.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed assignment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetExisting(ctx context.Context, userID, experimentName string) (*models.Assignment, error) {
	query := `
		SELECT user_id, experiment_name, variant, assigned_at
		FROM assignments
		WHERE user_id = $1 AND experiment_name = $2
	`
	var assignment models.Assignment
	err := s.db.QueryRowContext(ctx, query, userID, experimentName).Scan(
		&assignment.UserID, &assignment.ExperimentName,
		&assignment.Variant, &assignment.AssignedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return &assignment, nil
}

func (s *PostgresStore) CreateIfAbsent(ctx context.Context, candidate *models.Assignment) (*models.Assignment, bool, error) {
	insert := `
		INSERT INTO assignments (user_id, experiment_name, variant, assigned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, experiment_name) DO NOTHING
		RETURNING user_id, experiment_name, variant, assigned_at
	`
	var created models.Assignment
	err := s.db.QueryRowContext(ctx, insert,
		candidate.UserID, candidate.ExperimentName,
		candidate.Variant, candidate.AssignedAt,
	).Scan(&created.UserID, &created.ExperimentName, &created.Variant, &created.AssignedAt)
	if err == nil {
		return &created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("create assignment: %w", err)
	}

	// Conflict: a concurrent caller created the row first. Return theirs.
	existing, err := s.GetExisting(ctx, candidate.UserID, candidate.ExperimentName)
	if err != nil {
		return nil, false, fmt.Errorf("read back winning assignment: %w", err)
	}
	return existing, false, nil
}

func (s *PostgresStore) ListByExperiment(ctx context.Context, experimentName string) ([]*models.Assignment, error) {
	query := `
		SELECT user_id, experiment_name, variant, assigned_at
		FROM assignments
		WHERE experiment_name = $1
	`
	rows, err := s.db.QueryContext(ctx, query, experimentName)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		var assignment models.Assignment
		if err := rows.Scan(&assignment.UserID, &assignment.ExperimentName,
			&assignment.Variant, &assignment.AssignedAt); err != nil {
			return nil, fmt.Errorf("list assignments: %w", err)
		}
		assignments = append(assignments, &assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}
