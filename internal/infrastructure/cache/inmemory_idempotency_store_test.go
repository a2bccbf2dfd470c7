package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "user-1:key-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.MarkProcessed(ctx, "user-1:key-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, second)

	processed, err := store.IsProcessed(ctx, "user-1:key-1")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "user-2:key-1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	ok, err := store.MarkProcessed(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	processed, err := store.IsProcessed(ctx, "k")
	require.NoError(t, err)
	assert.False(t, processed)

	ok, err = store.MarkProcessed(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "an expired key can be reused")

	store.now = func() time.Time { return now.Add(time.Hour) }
	store.cleanup()
	assert.Zero(t, store.Size())
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k"))

	ok, err := store.MarkProcessed(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Close()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(context.Background(), "same", time.Minute); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Millisecond)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
