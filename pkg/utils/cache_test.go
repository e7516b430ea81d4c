package utils

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

// cacheContract runs the same behaviour checks against every backend.
type cacheContract struct {
	suite.Suite
	newCache func() interfaces.Cache
	cache    interfaces.Cache
	ctx      context.Context
}

func (s *cacheContract) SetupTest() {
	s.ctx = context.Background()
	s.cache = s.newCache()
	s.Require().NoError(s.cache.Clear(s.ctx))
}

func (s *cacheContract) TestSetGet() {
	s.Require().NoError(s.cache.Set(s.ctx, "trending:all:day", []byte(`{"page":1}`), time.Minute))

	got, err := s.cache.Get(s.ctx, "trending:all:day")

	s.Require().NoError(err)
	s.Equal(`{"page":1}`, string(got))
}

func (s *cacheContract) TestMiss() {
	_, err := s.cache.Get(s.ctx, "absent")
	s.ErrorIs(err, interfaces.ErrCacheMiss)

	ok, err := s.cache.Exists(s.ctx, "absent")
	s.NoError(err)
	s.False(ok)

	_, err = s.cache.TTL(s.ctx, "absent")
	s.ErrorIs(err, interfaces.ErrCacheMiss)
}

func (s *cacheContract) TestZeroTTLDoesNotStore() {
	s.Require().NoError(s.cache.Set(s.ctx, "k", []byte("v"), 0))

	_, err := s.cache.Get(s.ctx, "k")
	s.ErrorIs(err, interfaces.ErrCacheMiss)
}

func (s *cacheContract) TestDeleteAndClear() {
	s.Require().NoError(s.cache.Set(s.ctx, "a", []byte("1"), time.Minute))
	s.Require().NoError(s.cache.Set(s.ctx, "b", []byte("2"), time.Minute))

	s.Require().NoError(s.cache.Delete(s.ctx, "a"))
	ok, _ := s.cache.Exists(s.ctx, "a")
	s.False(ok)

	ttl, err := s.cache.TTL(s.ctx, "b")
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)

	s.Require().NoError(s.cache.Clear(s.ctx))
	ok, _ = s.cache.Exists(s.ctx, "b")
	s.False(ok)
}

func TestInMemoryCache(t *testing.T) {
	suite.Run(t, &cacheContract{newCache: func() interfaces.Cache {
		c := NewInMemoryCache(time.Minute)
		t.Cleanup(func() { _ = c.Close() })
		return c
	}})
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REELSCOUT_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: 200 * time.Millisecond})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })

	suite.Run(t, &cacheContract{newCache: func() interfaces.Cache {
		return NewRedisCache(client, "reelscout-test:")
	}})
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache(10 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 20*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := c.Get(ctx, "k")
		return err == interfaces.ErrCacheMiss
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCache_StoresCopy(t *testing.T) {
	c := NewInMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()
	buf := []byte("abc")

	require.NoError(t, c.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'x'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestNoopCache(t *testing.T) {
	var c interfaces.Cache = NoopCache{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)
}
