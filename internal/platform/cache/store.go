// Package cache keeps loaded values in memory for a fixed TTL.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

func (i item[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// Store maps string keys to values of type V. A TTL of zero keeps values
// until they are overwritten.
type Store[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu    sync.Mutex
	items map[string]item[V]
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]item[V]),
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok || it.expired(s.now()) {
		delete(s.items, key)
		var zero V
		return zero, false
	}
	return it.value, true
}

func (s *Store[V]) Set(key string, value V) {
	it := item[V]{value: value}
	if s.ttl > 0 {
		it.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.items[key] = it
	s.mu.Unlock()
}

// Len counts entries that have not expired yet and drops the rest.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, it := range s.items {
		if it.expired(now) {
			delete(s.items, key)
		}
	}
	return len(s.items)
}

// GetOrLoad returns the cached value for key or runs load once for all
// concurrent callers that missed. Load errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	out, err, _ := s.group.Do(key, func() (any, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return out.(V), nil
}
