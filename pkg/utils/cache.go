package utils

import (
	"context"
	"sync"
	"time"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

type cacheEntry struct {
	value      []byte
	expiration time.Time
}

func (e *cacheEntry) expired(now time.Time) bool {
	return now.After(e.expiration)
}

// InMemoryCache keeps entries in a map until they expire. A janitor
// goroutine drops expired entries until Close is called.
type InMemoryCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	stop    chan struct{}
	once    sync.Once
}

// NewInMemoryCache creates a cache swept every cleanupInterval.
func NewInMemoryCache(cleanupInterval time.Duration) *InMemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	cache := &InMemoryCache{
		entries: make(map[string]*cacheEntry),
		stop:    make(chan struct{}),
	}

	go cache.cleanup(cleanupInterval)

	return cache
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || entry.expired(time.Now()) {
		return nil, interfaces.ErrCacheMiss
	}

	return entry.value, nil
}

// Set stores a copy of value. A non-positive ttl is a no-op.
func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:      append([]byte(nil), value...),
		expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a value from the cache.
func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Clear removes all values from the cache.
func (c *InMemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	return nil
}

// Exists checks if a key exists in the cache.
func (c *InMemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	return exists && !entry.expired(time.Now()), nil
}

// TTL returns the remaining TTL for a key.
func (c *InMemoryCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return 0, interfaces.ErrCacheMiss
	}

	ttl := time.Until(entry.expiration)
	if ttl <= 0 {
		return 0, interfaces.ErrCacheMiss
	}

	return ttl, nil
}

// Close stops the janitor.
func (c *InMemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *InMemoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if entry.expired(now) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// NoopCache never stores anything. It backs the "none" cache driver.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, error) {
	return nil, interfaces.ErrCacheMiss
}

func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopCache) Delete(context.Context, string) error { return nil }

func (NoopCache) Clear(context.Context) error { return nil }

func (NoopCache) Exists(context.Context, string) (bool, error) { return false, nil }

func (NoopCache) TTL(context.Context, string) (time.Duration, error) {
	return 0, interfaces.ErrCacheMiss
}
