package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

// RedisCache stores entries in redis under a key prefix, so several
// instances of the server share one cache.
type RedisCache struct {
	c      *goredis.Client
	prefix string
}

// NewRedisCache wraps a go-redis client. Keys are stored as prefix+key.
func NewRedisCache(c *goredis.Client, prefix string) *RedisCache {
	return &RedisCache{c: c, prefix: prefix}
}

func (r *RedisCache) key(k string) string {
	return r.prefix + k
}

// Get returns ErrCacheMiss for absent keys.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.c.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return b, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.c.Set(ctx, r.key(key), value, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.c.Del(ctx, r.key(key)).Err()
}

// Clear deletes every key under the prefix.
func (r *RedisCache) Clear(ctx context.Context) error {
	iter := r.c.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := r.c.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.c.Del(ctx, batch...).Err()
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.c.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TTL returns ErrCacheMiss for absent keys.
func (r *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.c.TTL(ctx, r.key(key)).Result()
	if err != nil {
		return 0, err
	}
	// go-redis reports a missing key as -2 and a key without expiry as -1.
	if ttl == -2 {
		return 0, interfaces.ErrCacheMiss
	}
	return ttl, nil
}

// Ping checks the connection. The readiness probe uses it.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.c.Close()
}
