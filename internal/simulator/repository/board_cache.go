package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// BoardCache is a short-lived snapshot cache for the public board endpoints,
// which many clients poll every few seconds.
type BoardCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, payload string, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Compile-time check to ensure RedisBoardCache implements BoardCache.
var _ BoardCache = (*RedisBoardCache)(nil)

// RedisBoardCache stores board snapshots in Redis.
type RedisBoardCache struct {
	client *redis.Client
}

// NewRedisBoardCache creates a Redis-backed board cache.
func NewRedisBoardCache(client *redis.Client) *RedisBoardCache {
	return &RedisBoardCache{client: client}
}

// Get fetches a cached snapshot. A miss is not an error.
func (c *RedisBoardCache) Get(ctx context.Context, key string) (string, bool, error) {
	payload, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

// Set stores a snapshot with the given TTL.
func (c *RedisBoardCache) Set(ctx context.Context, key, payload string, ttl time.Duration) error {
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// Invalidate drops cached snapshots after a write.
func (c *RedisBoardCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
