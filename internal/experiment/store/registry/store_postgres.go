package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"laurelin/internal/experiment/models"
	"laurelin/pkg/platform/sentinel"
)

// PostgresStore persists experiment definitions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed experiment registry.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, experiment *models.Experiment) error {
	variants, err := json.Marshal(experiment.Variants)
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	query := `
		INSERT INTO experiments (name, variants, status, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		experiment.Name, variants, string(experiment.Status),
		experiment.Description, experiment.CreatedAt, experiment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create experiment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create experiment: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, name string) (*models.Experiment, error) {
	query := `
		SELECT name, variants, status, description, created_at, updated_at
		FROM experiments
		WHERE name = $1
	`
	row := s.db.QueryRowContext(ctx, query, name)
	experiment, err := scanExperiment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get experiment: %w", err)
	}
	return experiment, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, name string, status models.ExperimentStatus) error {
	query := `
		UPDATE experiments
		SET status = $2, updated_at = $3
		WHERE name = $1
	`
	res, err := s.db.ExecContext(ctx, query, name, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set experiment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set experiment status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Experiment, error) {
	query := `
		SELECT name, variants, status, description, created_at, updated_at
		FROM experiments
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []*models.Experiment
	for rows.Next() {
		experiment, err := scanExperiment(rows)
		if err != nil {
			return nil, fmt.Errorf("list experiments: %w", err)
		}
		experiments = append(experiments, experiment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	return experiments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperiment(row rowScanner) (*models.Experiment, error) {
	var (
		experiment models.Experiment
		variants   []byte
		status     string
	)
	if err := row.Scan(&experiment.Name, &variants, &status,
		&experiment.Description, &experiment.CreatedAt, &experiment.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(variants, &experiment.Variants); err != nil {
		return nil, fmt.Errorf("unmarshal variants: %w", err)
	}
	experiment.Status = models.ExperimentStatus(status)
	return &experiment, nil
}
