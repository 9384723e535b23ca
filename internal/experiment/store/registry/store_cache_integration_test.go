//go:build integration

package registry_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"laurelin/internal/experiment/models"
	"laurelin/internal/experiment/store/registry"
	"laurelin/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *registry.InMemory
	cache *registry.Cache
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
}

func (s *CacheSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.redis.FlushAll(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.inner = registry.NewInMemory()
	s.cache = registry.NewCache(s.inner, s.redis.Client, 30*time.Second, logger)
}

func (s *CacheSuite) TestGetServedFromCacheWithinTTL() {
	ctx := context.Background()
	exp := newTestExperiment("exp_" + uuid.NewString())
	s.Require().NoError(s.inner.Create(ctx, exp))

	// First read populates the cache.
	first, err := s.cache.Get(ctx, exp.Name)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, first.Status)

	// Mutate the inner store behind the cache's back.
	s.Require().NoError(s.inner.SetStatus(ctx, exp.Name, models.StatusPaused))

	// The cached definition still wins inside the TTL.
	second, err := s.cache.Get(ctx, exp.Name)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, second.Status)
}

func (s *CacheSuite) TestSetStatusInvalidates() {
	ctx := context.Background()
	exp := newTestExperiment("exp_" + uuid.NewString())
	s.Require().NoError(s.cache.Create(ctx, exp))

	_, err := s.cache.Get(ctx, exp.Name)
	s.Require().NoError(err)

	s.Require().NoError(s.cache.SetStatus(ctx, exp.Name, models.StatusPaused))

	// The write evicted the entry, so the next read sees the new status.
	got, err := s.cache.Get(ctx, exp.Name)
	s.Require().NoError(err)
	s.Equal(models.StatusPaused, got.Status)
}

func (s *CacheSuite) TestListBypassesCache() {
	ctx := context.Background()
	exp := newTestExperiment("exp_" + uuid.NewString())
	s.Require().NoError(s.cache.Create(ctx, exp))

	s.Require().NoError(s.inner.SetStatus(ctx, exp.Name, models.StatusPaused))

	all, err := s.cache.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(models.StatusPaused, all[0].Status)
}

func (s *CacheSuite) TestCorruptEntryFallsThrough() {
	ctx := context.Background()
	exp := newTestExperiment("exp_" + uuid.NewString())
	s.Require().NoError(s.inner.Create(ctx, exp))

	err := s.redis.Client.Set(ctx, "experiment:"+exp.Name, "not json", 30*time.Second).Err()
	s.Require().NoError(err)

	got, err := s.cache.Get(ctx, exp.Name)
	s.Require().NoError(err)
	s.Equal(exp.Name, got.Name)
	s.Equal(exp.Variants, got.Variants)
}
