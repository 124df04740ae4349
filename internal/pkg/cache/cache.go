package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/krishnapranayangara/linksdisplay/internal/pkg/logger"
	"github.com/krishnapranayangara/linksdisplay/internal/pkg/metrics"
)

// Cache is a thin read-through cache over redis. All operations fail
// open: a redis outage degrades to direct database reads, it never
// fails a request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get unmarshals the cached JSON value for key into dest. Returns
// false on a miss or on any redis/decode failure.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		metrics.RecordCacheLookup(false)
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("Cache decode failed", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheLookup(false)
		return false
	}

	metrics.RecordCacheLookup(true)
	return true
}

// Set stores value as JSON under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes one or more keys after a mutation.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
