// Package cache defines the response cache contract used by the API layer.
package cache

import (
	"context"
	"strings"
	"time"
)

// ResponseCache stores serialized API responses keyed by query shape.
type ResponseCache interface {
	// Get returns the cached payload for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores payload under key with the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Key builds a cache key from a query shape and its parameters.
// Example: Key("sentiment", "BTC", "24h") -> "resp:sentiment:BTC:24h".
func Key(shape string, params ...string) string {
	parts := append([]string{"resp", shape}, params...)
	return strings.Join(parts, ":")
}

// Noop is a ResponseCache that caches nothing. Used when Redis is not configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (Noop) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return nil
}

var _ ResponseCache = Noop{}
