package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"laurelin/internal/experiment/models"
)

// Cache is a read-through decorator over a Store. Experiment definitions change
// rarely, so a seconds-scale TTL bounds staleness while sparing the durable
// store a read per assignment. Only Get is cached; writes invalidate and List
// always hits the inner store. Redis failures degrade silently to the inner
// store so a cache outage never blocks assignment.
type Cache struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCache wraps inner with a Redis read-through cache.
func NewCache(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func cacheKey(name string) string {
	return "experiment:" + name
}

func (c *Cache) Get(ctx context.Context, name string) (*models.Experiment, error) {
	payload, err := c.client.Get(ctx, cacheKey(name)).Bytes()
	if err == nil {
		var experiment models.Experiment
		if err := json.Unmarshal(payload, &experiment); err == nil {
			return &experiment, nil
		}
		// Corrupt entry: fall through to the inner store and rewrite it.
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WarnContext(ctx, "experiment cache read failed",
			"experiment", name,
			"error", err.Error(),
		)
	}

	experiment, err := c.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(experiment); err == nil {
		if err := c.client.Set(ctx, cacheKey(name), payload, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "experiment cache write failed",
				"experiment", name,
				"error", err.Error(),
			)
		}
	}
	return experiment, nil
}

func (c *Cache) Create(ctx context.Context, experiment *models.Experiment) error {
	if err := c.inner.Create(ctx, experiment); err != nil {
		return err
	}
	c.invalidate(ctx, experiment.Name)
	return nil
}

func (c *Cache) SetStatus(ctx context.Context, name string, status models.ExperimentStatus) error {
	if err := c.inner.SetStatus(ctx, name, status); err != nil {
		return err
	}
	c.invalidate(ctx, name)
	return nil
}

func (c *Cache) List(ctx context.Context) ([]*models.Experiment, error) {
	return c.inner.List(ctx)
}

func (c *Cache) invalidate(ctx context.Context, name string) {
	if err := c.client.Del(ctx, cacheKey(name)).Err(); err != nil {
		c.logger.WarnContext(ctx, "experiment cache invalidation failed",
			"experiment", name,
			"error", err.Error(),
		)
	}
}
