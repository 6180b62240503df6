package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrLoadSharesConcurrentMisses(t *testing.T) {
	t.Parallel()

	store := NewStore[[]int](time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(context.Context) ([]int, error) {
		calls.Add(1)
		<-release
		return []int{8, 23614}, nil
	}

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan []int, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.GetOrLoad(context.Background(), "league:8", load)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for v := range results {
		assert.Equal(t, []int{8, 23614}, v)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one load, got %d", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 8, 16, 19, 0, 0, 0, time.UTC)
	store := NewStore[string](time.Minute)
	store.now = func() time.Time { return now }

	store.Set("k", "v")
	got, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	now = now.Add(time.Minute)
	_, ok = store.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 8, 16, 19, 0, 0, 0, time.UTC)
	store := NewStore[int](0)
	store.now = func() time.Time { return now }

	store.Set("k", 1)
	now = now.AddDate(1, 0, 0)
	got, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestStore_LoadErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	boom := errors.New("boom")

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "loaded", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "loaded", v)
}
