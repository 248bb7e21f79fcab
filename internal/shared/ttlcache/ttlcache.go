// Package ttlcache is a keyed (value, fetchedAt) store with per-key
// invalidation. Each cache instance has its own scope; nothing is global.
package ttlcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/contextutil"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

type Store[K comparable, V any] struct {
	mu       sync.RWMutex
	ttl      time.Duration
	clock    clock.Clock
	entries  map[K]entry[V]
	prunedAt time.Time
	sf       singleflight.Group
}

func New[K comparable, V any](ttl time.Duration, c clock.Clock) *Store[K, V] {
	if c == nil {
		c = clock.Real()
	}
	return &Store[K, V]{
		ttl:     ttl,
		clock:   c,
		entries: make(map[K]entry[V]),
	}
}

// Get returns the cached value for key while it is younger than the TTL,
// otherwise calls fetch once for all concurrent callers of the same key.
// The shared fetch is detached from any single caller's cancellation and
// bounded by the default operation timeout; each caller still stops waiting
// when its own ctx ends. Fetch errors are returned and never cached.
func (s *Store[K, V]) Get(ctx context.Context, key K, fetch func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := s.Peek(key); ok {
		return v, nil
	}

	ch := s.sf.DoChan(fmt.Sprint(key), func() (interface{}, error) {
		if v, ok := s.Peek(key); ok {
			return v, nil
		}
		fctx, cancel := contextutil.Bound(context.WithoutCancel(ctx), 0)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return v, err
		}
		s.Set(key, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Peek returns a fresh cached value without fetching. An expired entry is
// dropped.
func (s *Store[K, V]) Peek(key K) (V, bool) {
	var zero V
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.expired(e, s.clock.Now()) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.fetchedAt.Equal(e.fetchedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores v and, at most once per TTL, removes every expired entry so
// keys that are never read again do not pile up.
func (s *Store[K, V]) Set(key K, v V) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.prunedAt) >= s.ttl {
		for k, e := range s.entries {
			if s.expired(e, now) {
				delete(s.entries, k)
			}
		}
		s.prunedAt = now
	}
	s.entries[key] = entry[V]{value: v, fetchedAt: now}
}

func (s *Store[K, V]) expired(e entry[V], now time.Time) bool {
	return now.Sub(e.fetchedAt) >= s.ttl
}

func (s *Store[K, V]) Invalidate(key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// InvalidateFunc drops every key matching pred.
func (s *Store[K, V]) InvalidateFunc(pred func(K) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.entries {
		if pred(k) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
