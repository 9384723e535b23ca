//go:build integration

package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"laurelin/internal/experiment/models"
	"laurelin/internal/experiment/store/event"
	"laurelin/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *event.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = event.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "events")
	s.Require().NoError(err)
}

func newTestEvent(experimentName, eventType, variant string, at time.Time) *models.Event {
	return &models.Event{
		ID:             uuid.NewString(),
		UserID:         "user_" + uuid.NewString(),
		ExperimentName: experimentName,
		EventType:      eventType,
		EventData:      map[string]any{"source": "integration"},
		Variant:        variant,
		Timestamp:      at,
	}
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	e := newTestEvent("exp_events", "message_sent", "openai", now)
	e.EventData = map[string]any{"tokens": float64(42), "model": "gpt"}
	s.Require().NoError(s.store.Append(ctx, e))

	rows, err := s.store.ListByExperiment(ctx, "exp_events")
	s.Require().NoError(err)
	s.Require().Len(rows, 1)

	got := rows[0]
	s.Equal(e.ID, got.ID)
	s.Equal(e.UserID, got.UserID)
	s.Equal("message_sent", got.EventType)
	s.Equal("openai", got.Variant)
	s.Equal(e.EventData, got.EventData)
	s.WithinDuration(now, got.Timestamp, time.Millisecond)
}

func (s *PostgresStoreSuite) TestListOrderedByTime() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond)

	late := newTestEvent("exp_order", "click", "google", base.Add(2*time.Second))
	early := newTestEvent("exp_order", "click", "openai", base)
	mid := newTestEvent("exp_order", "click", "google", base.Add(time.Second))

	for _, e := range []*models.Event{late, early, mid} {
		s.Require().NoError(s.store.Append(ctx, e))
	}

	rows, err := s.store.ListByExperiment(ctx, "exp_order")
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal(early.ID, rows[0].ID)
	s.Equal(mid.ID, rows[1].ID)
	s.Equal(late.ID, rows[2].ID)
}

func (s *PostgresStoreSuite) TestListFiltersByExperiment() {
	ctx := context.Background()
	now := time.Now().UTC()

	s.Require().NoError(s.store.Append(ctx, newTestEvent("exp_one", "click", "openai", now)))
	s.Require().NoError(s.store.Append(ctx, newTestEvent("exp_two", "click", "google", now)))

	rows, err := s.store.ListByExperiment(ctx, "exp_one")
	s.Require().NoError(err)
	s.Len(rows, 1)
	s.Equal("exp_one", rows[0].ExperimentName)
}

func (s *PostgresStoreSuite) TestListEmptyExperiment() {
	ctx := context.Background()
	rows, err := s.store.ListByExperiment(ctx, "exp_none")
	s.Require().NoError(err)
	s.Empty(rows)
}
