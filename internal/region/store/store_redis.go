package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"idcard/internal/region/metrics"
	"idcard/pkg/platform/sentinel"
)

const redisKeyPrefix = "region:"

// RedisCache is a read-through cache for region names. Misses fall back to
// source and successful results are stored with the configured TTL. Unknown
// codes are not cached.
type RedisCache struct {
	client  *redis.Client
	source  Source
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewRedisCache constructs a Redis cache in front of source.
func NewRedisCache(client *redis.Client, source Source, ttl time.Duration, m *metrics.Metrics) *RedisCache {
	return &RedisCache{
		client:  client,
		source:  source,
		ttl:     ttl,
		metrics: m,
	}
}

func (c *RedisCache) Lookup(ctx context.Context, code string) (string, error) {
	start := time.Now()
	name, err := c.client.Get(ctx, redisKey(code)).Result()
	switch {
	case err == nil:
		c.metrics.RecordHit("redis", time.Since(start).Seconds())
		return name, nil
	case errors.Is(err, redis.Nil):
		c.metrics.RecordMiss("redis", time.Since(start).Seconds())
	default:
		// Cache failures degrade to the source rather than failing the lookup.
		c.metrics.RecordError("redis", time.Since(start).Seconds())
	}

	name, err = c.source.Lookup(ctx, code)
	if err != nil {
		return "", err
	}
	_ = c.client.Set(ctx, redisKey(code), name, c.ttl).Err()
	return name, nil
}

// Invalidate removes cached entries for codes.
func (c *RedisCache) Invalidate(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = redisKey(code)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate region cache: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func redisKey(code string) string {
	return redisKeyPrefix + code
}
