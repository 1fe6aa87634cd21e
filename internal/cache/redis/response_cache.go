package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"whale-intel/internal/cache"
)

// ResponseCache implements cache.ResponseCache using plain Redis strings.
// Payloads are stored as-is with a per-entry TTL.
type ResponseCache struct {
	rdb *redis.Client
}

// NewResponseCache creates a ResponseCache backed by the given Client.
func NewResponseCache(c *Client) *ResponseCache {
	return &ResponseCache{rdb: c.Underlying()}
}

// Get returns the cached payload for key. A missing key is not an error.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := rc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores payload under key with the given TTL.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := rc.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ cache.ResponseCache = (*ResponseCache)(nil)
