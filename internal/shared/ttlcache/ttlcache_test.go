package ttlcache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/ttlcache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ExpiresAfterTTL(t *testing.T) {
	fc := clock.NewFake(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	store := ttlcache.New[string, int](5*time.Minute, fc)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	v, err := store.Get(ctx, "company-a", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	fc.Advance(4 * time.Minute)
	v, _ = store.Get(ctx, "company-a", fetch)
	assert.Equal(t, 1, v, "still fresh")

	fc.Advance(time.Minute)
	v, _ = store.Get(ctx, "company-a", fetch)
	assert.Equal(t, 2, v, "refetched at ttl")
}

func TestStore_InvalidateIsPerKey(t *testing.T) {
	store := ttlcache.New[string, string](time.Hour, nil)
	store.Set("a", "1")
	store.Set("b", "2")

	store.Invalidate("a")

	_, okA := store.Peek("a")
	_, okB := store.Peek("b")
	assert.False(t, okA)
	assert.True(t, okB)
}

func TestStore_InvalidateFunc(t *testing.T) {
	type key struct{ company, worker string }
	store := ttlcache.New[key, int](time.Hour, nil)
	store.Set(key{"c1", "w1"}, 1)
	store.Set(key{"c1", "w2"}, 2)
	store.Set(key{"c2", "w1"}, 3)

	n := store.InvalidateFunc(func(k key) bool { return k.company == "c1" })
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.Len())
}

func TestStore_ErrorsAreNotCached(t *testing.T) {
	store := ttlcache.New[string, int](time.Hour, nil)
	boom := errors.New("db down")

	_, err := store.Get(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := store.Get(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestStore_ConcurrentMissesFetchOnce(t *testing.T) {
	store := ttlcache.New[string, int](time.Hour, nil)
	var calls int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Get(context.Background(), "k", func(context.Context) (int, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return 1, nil
			})
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestStore_ExpiredEntriesAreDropped(t *testing.T) {
	type key struct {
		worker string
		day    int
	}
	fc := clock.NewFake(time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	store := ttlcache.New[key, int](5*time.Minute, fc)

	for day := 0; day < 30; day++ {
		for w := 0; w < 100; w++ {
			store.Set(key{worker: fmt.Sprint(w), day: day}, w)
		}
		fc.Advance(24 * time.Hour)
	}
	// only the last day's keys survive the prune on Set
	assert.Equal(t, 100, store.Len())

	store.Set(key{worker: "new", day: 30}, 1)
	assert.Equal(t, 1, store.Len())

	fc.Advance(5 * time.Minute)
	_, ok := store.Peek(key{worker: "new", day: 30})
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	store := ttlcache.New[string, int](time.Hour, nil)
	started := make(chan struct{})
	release := make(chan struct{})

	first, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := store.Get(first, "k", func(ctx context.Context) (int, error) {
			close(started)
			select {
			case <-release:
				return 42, ctx.Err()
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		})
		firstErr <- err
	}()
	<-started

	secondVal := make(chan int, 1)
	go func() {
		v, _ := store.Get(context.Background(), "k", func(context.Context) (int, error) {
			return -1, nil
		})
		secondVal <- v
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.Equal(t, 42, <-secondVal)
}
