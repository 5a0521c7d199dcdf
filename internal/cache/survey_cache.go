package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"surveyhub/internal/model"
)

// PublishedSurvey is the cached bundle served to anonymous respondents: the
// survey plus its questions and options in render order.
type PublishedSurvey struct {
	Survey    *model.Survey               `json:"survey"`
	Questions []model.QuestionWithOptions `json:"questions"`
}

// SurveyCache handles Redis operations for published-survey lookups by
// public slug. Entries are invalidated when a survey closes.
type SurveyCache interface {
	Get(ctx context.Context, publicSlug string) (*PublishedSurvey, error)
	Set(ctx context.Context, publicSlug string, bundle *PublishedSurvey) error
	Delete(ctx context.Context, publicSlug string) error
}

type surveyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSurveyCache creates a new published-survey cache
func NewSurveyCache(client *redis.Client) SurveyCache {
	return &surveyCache{
		client: client,
		ttl:    time.Hour,
	}
}

func (c *surveyCache) key(publicSlug string) string {
	return fmt.Sprintf("survey:pub:%s", publicSlug)
}

func (c *surveyCache) Get(ctx context.Context, publicSlug string) (*PublishedSurvey, error) {
	data, err := c.client.Get(ctx, c.key(publicSlug)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var bundle PublishedSurvey
	if err := json.Unmarshal([]byte(data), &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (c *surveyCache) Set(ctx context.Context, publicSlug string, bundle *PublishedSurvey) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(publicSlug), data, c.ttl).Err()
}

func (c *surveyCache) Delete(ctx context.Context, publicSlug string) error {
	return c.client.Del(ctx, c.key(publicSlug)).Err()
}
