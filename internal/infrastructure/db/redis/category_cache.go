package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskhive/task-system/internal/api/metrics"
	"github.com/taskhive/task-system/internal/core/domain"
)

const categoriesKey = "categories:all"
const categoriesTTL = 5 * time.Minute

// CategoryCache caches the full category list as a single JSON blob. The
// list is global (categories have no owner), small, and read far more
// often than it changes.
type CategoryCache struct {
	client *redis.Client
}

func NewCategoryCache(client *redis.Client) *CategoryCache {
	return &CategoryCache{client: client}
}

// Get returns the cached list, or an error on a miss or a failure. A
// decode failure counts as a miss; the stale key will be overwritten on
// the next Set.
func (c *CategoryCache) Get(ctx context.Context) ([]*domain.Category, error) {
	payload, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		metrics.CategoryCacheTotal.WithLabelValues("miss").Inc()
		if err == redis.Nil {
			return nil, fmt.Errorf("category cache: miss")
		}
		return nil, fmt.Errorf("category cache get: %w", err)
	}

	var categories []*domain.Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		metrics.CategoryCacheTotal.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("category cache decode: %w", err)
	}

	metrics.CategoryCacheTotal.WithLabelValues("hit").Inc()
	return categories, nil
}

// Set stores the list with a short TTL (expires after categoriesTTL).
func (c *CategoryCache) Set(ctx context.Context, categories []*domain.Category) error {
	payload, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("category cache encode: %w", err)
	}
	return c.client.Set(ctx, categoriesKey, payload, categoriesTTL).Err()
}

// Invalidate drops the cached list after a category is created.
func (c *CategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoriesKey).Err()
}
