//go:build integration

package assignment_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"laurelin/internal/experiment/models"
	"laurelin/internal/experiment/store/assignment"
	"laurelin/pkg/platform/sentinel"
	"laurelin/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *assignment.PostgresStore
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
	s.store = assignment.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "assignments")
	s.Require().NoError(err)
}

func newTestAssignment(userID, experimentName, variant string) *models.Assignment {
	return &models.Assignment{
		UserID:         userID,
		ExperimentName: experimentName,
		Variant:        variant,
		AssignedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateIfAbsentFirstWrite() {
	ctx := context.Background()
	candidate := newTestAssignment("user_"+uuid.NewString(), "exp_checkout", "openai")

	current, created, err := s.store.CreateIfAbsent(ctx, candidate)
	s.Require().NoError(err)
	s.True(created)
	s.Equal(candidate.Variant, current.Variant)

	found, err := s.store.GetExisting(ctx, candidate.UserID, candidate.ExperimentName)
	s.Require().NoError(err)
	s.Equal("openai", found.Variant)
}

func (s *PostgresStoreSuite) TestCreateIfAbsentReturnsWinner() {
	ctx := context.Background()
	userID := "user_" + uuid.NewString()

	first := newTestAssignment(userID, "exp_checkout", "openai")
	_, created, err := s.store.CreateIfAbsent(ctx, first)
	s.Require().NoError(err)
	s.True(created)

	// A second write for the same pair loses and gets the stored row back.
	second := newTestAssignment(userID, "exp_checkout", "google")
	current, created, err := s.store.CreateIfAbsent(ctx, second)
	s.Require().NoError(err)
	s.False(created)
	s.Equal("openai", current.Variant)
}

// TestConcurrentCreateIfAbsent verifies that racing writes for the same
// user and experiment produce exactly one stored row.
func (s *PostgresStoreSuite) TestConcurrentCreateIfAbsent() {
	ctx := context.Background()
	userID := "user_" + uuid.NewString()
	const goroutines = 50

	var wg sync.WaitGroup
	var createdCount atomic.Int32
	var errCount atomic.Int32
	variants := make([]string, goroutines)
	var mu sync.Mutex

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			candidate := newTestAssignment(userID, "exp_race", "openai")
			current, created, err := s.store.CreateIfAbsent(ctx, candidate)
			if err != nil {
				errCount.Add(1)
				return
			}
			if created {
				createdCount.Add(1)
			}
			mu.Lock()
			variants[idx] = current.Variant
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	s.Equal(int32(0), errCount.Load(), "no errors expected")
	s.Equal(int32(1), createdCount.Load(), "exactly one write should win")

	// Every caller observed the winner's variant.
	for _, v := range variants {
		s.Equal("openai", v)
	}

	rows, err := s.store.ListByExperiment(ctx, "exp_race")
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *PostgresStoreSuite) TestGetExistingNotFound() {
	ctx := context.Background()
	_, err := s.store.GetExisting(ctx, "user_"+uuid.NewString(), "exp_checkout")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByExperiment() {
	ctx := context.Background()

	for i, variant := range []string{"openai", "openai", "google"} {
		a := newTestAssignment("user_"+uuid.NewString(), "exp_list", variant)
		_, created, err := s.store.CreateIfAbsent(ctx, a)
		s.Require().NoError(err)
		s.True(created, "write %d should be fresh", i)
	}
	other := newTestAssignment("user_"+uuid.NewString(), "exp_other", "control")
	_, _, err := s.store.CreateIfAbsent(ctx, other)
	s.Require().NoError(err)

	rows, err := s.store.ListByExperiment(ctx, "exp_list")
	s.Require().NoError(err)
	s.Len(rows, 3)
	for _, row := range rows {
		s.Equal("exp_list", row.ExperimentName)
	}
}
