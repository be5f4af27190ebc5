package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/logger"
)

func exerciseCache(t *testing.T, c Cache) {
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, GenerateKey(PrefixIdempotency, "a", 1), []byte("one"), time.Minute)
	c.Set(ctx, GenerateKey(PrefixIdempotency, "a", 2), []byte("two"), time.Minute)
	c.Set(ctx, "other:key", []byte("three"), 0)

	v, ok := c.Get(ctx, "idempotency:v1:a:1")
	require.True(t, ok)
	assert.Equal(t, []byte("one"), v)

	c.Delete(ctx, "idempotency:v1:a:1")
	_, ok = c.Get(ctx, "idempotency:v1:a:1")
	assert.False(t, ok)

	c.DeleteByPrefix(ctx, PrefixIdempotency)
	_, ok = c.Get(ctx, "idempotency:v1:a:2")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "other:key")
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, "other:key")
	assert.False(t, ok)
}

func TestInMemoryCache(t *testing.T) {
	exerciseCache(t, NewInMemoryCache(time.Minute))
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, time.Minute, logger.NewNoopLogger())
	defer c.Close()

	exerciseCache(t, c)
}

func TestRedisCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, time.Minute, logger.NewNoopLogger())
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k", []byte("v"), time.Second)
	mr.FastForward(2 * time.Second)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNoopCacheNeverStores(t *testing.T) {
	c := noopCache{}
	c.Set(context.Background(), "k", []byte("v"), time.Minute)
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
