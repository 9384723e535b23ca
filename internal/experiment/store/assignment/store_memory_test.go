package assignment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"laurelin/internal/experiment/models"
	"laurelin/pkg/platform/sentinel"
)

type AssignmentStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *AssignmentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestAssignmentStoreSuite(t *testing.T) {
	suite.Run(t, new(AssignmentStoreSuite))
}

func newAssignment(userID, experimentName, variant string) *models.Assignment {
	return &models.Assignment{
		UserID:         userID,
		ExperimentName: experimentName,
		Variant:        variant,
		AssignedAt:     time.Now().UTC(),
	}
}

func (s *AssignmentStoreSuite) TestGetExisting() {
	s.Run("absent pair returns ErrNotFound", func() {
		_, err := s.store.GetExisting(s.ctx, "user-1", "exp")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("created pair is returned", func() {
		_, created, err := s.store.CreateIfAbsent(s.ctx, newAssignment("user-1", "exp", "openai"))
		s.Require().NoError(err)
		s.True(created)

		found, err := s.store.GetExisting(s.ctx, "user-1", "exp")
		s.Require().NoError(err)
		s.Equal("openai", found.Variant)
	})
}

func (s *AssignmentStoreSuite) TestCreateIfAbsentIsFirstWriterWins() {
	first, created, err := s.store.CreateIfAbsent(s.ctx, newAssignment("user-1", "exp", "openai"))
	s.Require().NoError(err)
	s.True(created)
	s.Equal("openai", first.Variant)

	// Second writer loses and receives the original variant back.
	second, created, err := s.store.CreateIfAbsent(s.ctx, newAssignment("user-1", "exp", "google"))
	s.Require().NoError(err)
	s.False(created)
	s.Equal("openai", second.Variant)
}

func (s *AssignmentStoreSuite) TestCreateIfAbsentConcurrent() {
	const goroutines = 50
	variants := []string{"openai", "google"}

	var wg sync.WaitGroup
	results := make([]string, goroutines)
	createdCount := make([]bool, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			candidate := newAssignment("racer", "exp", variants[i%2])
			got, created, err := s.store.CreateIfAbsent(s.ctx, candidate)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = got.Variant
			createdCount[i] = created
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.Require().NoError(err)
	}

	creates := 0
	for _, c := range createdCount {
		if c {
			creates++
		}
	}
	s.Equal(1, creates, "exactly one caller should create the row")

	// Every caller observed the same durably recorded variant.
	for _, v := range results {
		s.Equal(results[0], v)
	}

	rows, err := s.store.ListByExperiment(s.ctx, "exp")
	s.Require().NoError(err)
	s.Len(rows, 1)
}

func (s *AssignmentStoreSuite) TestListByExperiment() {
	_, _, err := s.store.CreateIfAbsent(s.ctx, newAssignment("u1", "exp-a", "openai"))
	s.Require().NoError(err)
	_, _, err = s.store.CreateIfAbsent(s.ctx, newAssignment("u2", "exp-a", "google"))
	s.Require().NoError(err)
	_, _, err = s.store.CreateIfAbsent(s.ctx, newAssignment("u1", "exp-b", "openai"))
	s.Require().NoError(err)

	rows, err := s.store.ListByExperiment(s.ctx, "exp-a")
	s.Require().NoError(err)
	s.Len(rows, 2)
}
