package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cachedResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

func newTestCache(t *testing.T) *InMemoryCache {
	t.Helper()
	c := NewInMemoryCache(time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func TestInMemoryCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedResult{ID: "tx_1", Success: true}, 60))

	var got cachedResult
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, cachedResult{ID: "tx_1", Success: true}, got)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := newTestCache(t)
	base := time.Date(2025, 6, 11, 11, 49, 2, 0, time.UTC)
	c.now = func() time.Time { return base }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", cachedResult{ID: "tx_1"}, 10))

	c.now = func() time.Time { return base.Add(11 * time.Second) }
	var got cachedResult
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", cachedResult{ID: "tx_1"}, 0))
	require.NoError(t, c.Delete(ctx, "k"))

	var got cachedResult
	hit, _ := c.Get(ctx, "k", &got)
	assert.False(t, hit)
}

func TestAsyncCacheSet_EventuallyStored(t *testing.T) {
	c := newTestCache(t)
	AsyncCacheSet(c, ReplayKey("payment", "idem-1"), cachedResult{ID: "pay_1"}, time.Hour, zap.NewNop())

	assert.Eventually(t, func() bool {
		var got cachedResult
		return Lookup(context.Background(), c, ReplayKey("payment", "idem-1"), &got, zap.NewNop())
	}, time.Second, 10*time.Millisecond)
}

func TestLookup_NilCache(t *testing.T) {
	var got cachedResult
	assert.False(t, Lookup(context.Background(), nil, "k", &got, zap.NewNop()))
}

func TestInMemoryCache_PurgeDropsExpiredKeysNeverReadAgain(t *testing.T) {
	c := newTestCache(t)
	base := time.Date(2025, 6, 11, 11, 49, 2, 0, time.UTC)
	var mu sync.Mutex
	current := base
	c.now = func() time.Time { mu.Lock(); defer mu.Unlock(); return current }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Set(ctx, ReplayKey("create-usage-event", fmt.Sprintf("tx_%d", i)), cachedResult{ID: "x"}, 1))
	}
	require.NoError(t, c.Set(ctx, "long-lived", cachedResult{ID: "keep"}, 3600))
	require.Equal(t, 1001, c.Len())

	mu.Lock()
	current = base.Add(48 * time.Second)
	mu.Unlock()
	c.purgeExpired()

	assert.Equal(t, 1, c.Len())
	var got cachedResult
	hit, err := c.Get(ctx, "long-lived", &got)
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestInMemoryCache_CleanupLoopRunsUntilStopped(t *testing.T) {
	c := NewInMemoryCache(5 * time.Millisecond)
	defer c.Stop()
	ctx := context.Background()
	base := time.Now()
	c.mu.Lock()
	c.now = func() time.Time { return base.Add(time.Hour) }
	c.store["stale"] = entry{data: []byte(`{}`), expiresAt: base}
	c.mu.Unlock()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	c.Stop()
	c.Stop()
	require.NoError(t, c.Set(ctx, "after-stop", cachedResult{}, 0))
	assert.Equal(t, 1, c.Len())
}
