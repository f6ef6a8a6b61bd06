package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"smart-shopping/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, maxSize int, ttl time.Duration) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))

	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := newTestCache(t, 10, 10*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := newTestCache(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")))
	}

	// k0 與 k2 各讀一次，k1 成為最少使用者
	_, err := c.Get(ctx, "k0")
	require.NoError(t, err)
	_, err = c.Get(ctx, "k2")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k3", []byte("v")))

	_, err = c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "k3")
	assert.NoError(t, err)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, c.Delete(ctx, "k1"))

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheStats(t *testing.T) {
	c := newTestCache(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	_, _ = c.Get(ctx, "k1")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestSearchKeyNormalizesQuery(t *testing.T) {
	assert.Equal(t, SearchKey("Carbonara"), SearchKey("  carbonara "))
	assert.NotEqual(t, SearchKey("carbonara"), SearchKey("bolognaise"))
}
