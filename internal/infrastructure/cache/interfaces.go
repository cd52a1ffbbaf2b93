package cache

import (
	"context"
	"fmt"
	"time"
)

// Key prefixes keep the shared Redis keyspace partitioned.
const (
	VerificationPrefix = "carrier:verify:"
	RateLimitPrefix    = "ratelimit:"
)

// Cache is the JSON cache the verification service stores registry results in.
type Cache interface {
	// GetJSON retrieves and unmarshals JSON data
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON marshals and stores JSON data with a TTL
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Close closes the cache connection
	Close() error
}

// RateLimiter provides sliding-window rate limiting
type RateLimiter interface {
	// Allow checks if a request is allowed under the rate limit
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// ErrCacheKeyNotFound indicates a cache miss
type ErrCacheKeyNotFound struct {
	Key string
}

func (e ErrCacheKeyNotFound) Error() string {
	return fmt.Sprintf("cache key not found: %s", e.Key)
}
