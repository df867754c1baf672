package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/fixture-sync/internal/platform/resilience"
)

var ErrNilLoader = errors.New("cache loader is required")

type slot[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL map keyed by string. A zero TTL keeps entries
// until they are forgotten. Loads for the same key are collapsed.
type Store[V any] struct {
	mu     sync.RWMutex
	slots  map[string]slot[V]
	ttl    time.Duration
	now    func() time.Time
	flight resilience.SingleFlight
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		slots: make(map[string]slot[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Store[V]) Get(key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	sl, ok := s.slots[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && !sl.expiresAt.After(s.now()) {
		s.Forget(key)
		return zero, false
	}
	return sl.value, true
}

func (s *Store[V]) Put(key string, value V) {
	if key == "" {
		return
	}

	sl := slot[V]{value: value}
	if s.ttl > 0 {
		sl.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.slots[key] = sl
	s.mu.Unlock()
}

func (s *Store[V]) Forget(key string) {
	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, otherwise runs load once for all
// concurrent callers. Load errors reach every waiter and are never cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	var zero V
	if load == nil {
		return zero, ErrNilLoader
	}
	if key == "" {
		return load(ctx)
	}
	if value, ok := s.Get(key); ok {
		return value, nil
	}

	shared, err, _ := s.flight.Do(key, func() (any, error) {
		if value, ok := s.Get(key); ok {
			return value, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Put(key, value)
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return shared.(V), nil
}
