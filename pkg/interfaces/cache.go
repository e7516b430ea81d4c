package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get and TTL when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores encoded upstream responses under string keys.
type Cache interface {
	// Get returns the stored bytes or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Exists(ctx context.Context, key string) (bool, error)

	// TTL returns the remaining TTL for a key
	TTL(ctx context.Context, key string) (time.Duration, error)
}
