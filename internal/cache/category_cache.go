package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/homecare-api/internal/domain"
)

const categoriesKey = "blog:categories"

// CategoryCache stores the blog category list in Redis.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache returns a cache whose entries expire after ttl.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Get returns the cached list. A miss reports ok=false with a nil error.
func (c *CategoryCache) Get(ctx context.Context) ([]domain.BlogCategory, bool, error) {
	raw, err := c.client.Get(ctx, categoriesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var categories []domain.BlogCategory
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false, err
	}
	return categories, true, nil
}

// Set replaces the cached list.
func (c *CategoryCache) Set(ctx context.Context, categories []domain.BlogCategory) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoriesKey, raw, c.ttl).Err()
}

// Invalidate drops the cached list.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoriesKey).Err()
}
