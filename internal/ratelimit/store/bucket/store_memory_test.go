package bucket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBucketStore_Allow(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store := NewInMemoryBucketStore(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for i := range 3 {
		res, err := store.Allow(ctx, "ip:auth:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := store.Allow(ctx, "ip:auth:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 60, res.RetryAfter)

	t.Run("other keys have their own window", func(t *testing.T) {
		res, err := store.Allow(ctx, "ip:auth:10.0.0.2", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	})

	t.Run("window slides", func(t *testing.T) {
		now = now.Add(time.Minute + time.Second)
		res, err := store.Allow(ctx, "ip:auth:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2, res.Remaining)
	})
}

func TestInMemoryBucketStore_ResetAndCount(t *testing.T) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()

	_, _ = store.Allow(ctx, "k", 5, time.Minute)
	_, _ = store.Allow(ctx, "k", 5, time.Minute)
	count, err := store.GetCurrentCount(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Reset(ctx, "k"))
	count, err = store.GetCurrentCount(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInMemoryBucketStore_ConcurrentAllowNeverExceedsLimit(t *testing.T) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.Allow(ctx, "shared", 10, time.Minute)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, allowed)
}
