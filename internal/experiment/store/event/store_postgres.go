package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"laurelin/internal/experiment/models"
)

// PostgresStore persists events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed event log.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event.EventData)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	query := `
		INSERT INTO events (id, user_id, experiment_name, event_type, event_data, variant, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(ctx, query,
		event.ID, event.UserID, event.ExperimentName,
		event.EventType, data, event.Variant, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByExperiment(ctx context.Context, experimentName string) ([]*models.Event, error) {
	query := `
		SELECT id, user_id, experiment_name, event_type, event_data, variant, occurred_at
		FROM events
		WHERE experiment_name = $1
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query, experimentName)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		var (
			event models.Event
			data  []byte
		)
		if err := rows.Scan(&event.ID, &event.UserID, &event.ExperimentName,
			&event.EventType, &data, &event.Variant, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		if len(data) > 0 {
			if err := json.Unmarshal(data, &event.EventData); err != nil {
				return nil, fmt.Errorf("unmarshal event data: %w", err)
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
