package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StatsCache handles Redis counters for per-survey response totals. The
// counter is advisory (dashboards, live feed); Mongo remains the source of
// truth and reseeds the counter on miss.
type StatsCache interface {
	IncrementResponses(ctx context.Context, surveyID string) (int64, error)
	GetResponses(ctx context.Context, surveyID string) (int64, bool, error)
	SeedResponses(ctx context.Context, surveyID string, count int64) error
	DeleteResponses(ctx context.Context, surveyID string) error
}

type statsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{client: client}
}

func (c *statsCache) key(surveyID string) string {
	return fmt.Sprintf("survey:%s:responses", surveyID)
}

// IncrementResponses bumps the counter and returns the new total
func (c *statsCache) IncrementResponses(ctx context.Context, surveyID string) (int64, error) {
	return c.client.Incr(ctx, c.key(surveyID)).Result()
}

// GetResponses returns the counter and whether it exists
func (c *statsCache) GetResponses(ctx context.Context, surveyID string) (int64, bool, error) {
	n, err := c.client.Get(ctx, c.key(surveyID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *statsCache) SeedResponses(ctx context.Context, surveyID string, count int64) error {
	return c.client.Set(ctx, c.key(surveyID), count, 0).Err()
}

func (c *statsCache) DeleteResponses(ctx context.Context, surveyID string) error {
	return c.client.Del(ctx, c.key(surveyID)).Err()
}
