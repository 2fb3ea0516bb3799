package admission

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SlidingWindow(t *testing.T) {
	store := NewMemoryStore(4, 100, time.Minute)
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		d, err := store.Allow(ctx, "wallet:a", 3, time.Minute, start.Add(time.Duration(i)*10*time.Second))
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := store.Allow(ctx, "wallet:a", 3, time.Minute, start.Add(30*time.Second))
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 30*time.Second, d.RetryAfter, "oldest hit leaves the window at start+60s")

	// The first hit slides out exactly one window later
	d, err = store.Allow(ctx, "wallet:a", 3, time.Minute, start.Add(60*time.Second))
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// Other keys have their own budget
	d, err = store.Allow(ctx, "wallet:b", 3, time.Minute, start.Add(30*time.Second))
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryStore_RejectedRequestsDoNotConsumeBudget(t *testing.T) {
	store := NewMemoryStore(1, 10, time.Minute)
	ctx := context.Background()
	start := time.Now()

	_, err := store.Allow(ctx, "k", 1, time.Minute, start)
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		d, err := store.Allow(ctx, "k", 1, time.Minute, start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	}

	d, err := store.Allow(ctx, "k", 1, time.Minute, start.Add(61*time.Second))
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryStore_ZeroLimitDenies(t *testing.T) {
	store := NewMemoryStore(1, 10, time.Minute)
	d, err := store.Allow(context.Background(), "k", 0, time.Minute, time.Now())
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Minute, d.RetryAfter)
}

func TestMemoryStore_BoundedKeys(t *testing.T) {
	store := NewMemoryStore(2, 10, time.Minute)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 100; i++ {
		_, err := store.Allow(ctx, fmt.Sprintf("conn:%d", i), 5, time.Minute, now)
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, store.Len(), 10)
}

func TestMemoryStore_IdleWindowsExpire(t *testing.T) {
	store := NewMemoryStore(1, 10, 50*time.Millisecond)
	_, err := store.Allow(context.Background(), "k", 5, time.Minute, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 20*time.Millisecond)
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	store := NewMemoryStore(8, 1000, time.Minute)
	ctx := context.Background()
	now := time.Now()

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := store.Allow(ctx, "wallet:hot", 30, time.Minute, now)
			if err == nil && d.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(30), admitted.Load())
}
