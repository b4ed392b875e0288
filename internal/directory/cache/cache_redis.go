package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"rostersync/pkg/platform/sentinel"
)

// Redis key prefix for lookup resolutions
const lookupKeyPrefix = "rostersync:cpf:"

// RedisCache is a Redis-backed lookup cache. Use it when runs on different
// machines (or repeated cron invocations) should share lookup results.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache constructs a Redis-backed lookup cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Find retrieves a cached subscriber ID by CPF.
// Returns sentinel.ErrNotFound if the key does not exist (never cached or
// expired).
func (c *RedisCache) Find(ctx context.Context, cpf string) (string, error) {
	id, err := c.client.Get(ctx, lookupKeyPrefix+cpf).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Save stores a CPF to subscriber ID resolution with TTL.
// Uses SET with expiry so stale resolutions age out on their own.
func (c *RedisCache) Save(ctx context.Context, cpf, subscriberID string) error {
	return c.client.Set(ctx, lookupKeyPrefix+cpf, subscriberID, c.ttl).Err()
}
