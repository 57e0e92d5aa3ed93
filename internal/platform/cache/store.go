package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/resilience"
)

// Store is a capacity-bounded LRU whose entries expire after a fixed TTL.
// Stored values are treated as immutable by callers.
type Store[V any] struct {
	name    string
	entries *expirable.LRU[string, V]
	flight  resilience.SingleFlight
	observe func(name string, hit bool)
}

type Option[V any] func(*Store[V])

// WithObserver registers a hook called on every lookup, used for hit/miss metrics.
func WithObserver[V any](fn func(name string, hit bool)) Option[V] {
	return func(s *Store[V]) {
		s.observe = fn
	}
}

func NewStore[V any](name string, size int, ttl time.Duration, opts ...Option[V]) *Store[V] {
	if size <= 0 {
		size = 100
	}
	s := &Store[V]{
		name:    name,
		entries: expirable.NewLRU[string, V](size, nil, ttl),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	value, ok := s.entries.Get(key)
	if s.observe != nil {
		s.observe(s.name, ok)
	}
	if !ok {
		return zero, false
	}
	return value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}
	s.entries.Add(key, value)
}

// GetOrLoad returns the cached value or runs loader once per key across
// concurrent callers. Loader errors are not cached. The shared load keeps the
// first caller's deadline but not its cancellation.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	out, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.entries.Peek(key); ok {
			return cached, nil
		}

		loadCtx, cancel := sharedContext(ctx)
		defer cancel()

		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := out.(V)
	if !ok {
		return zero, fmt.Errorf("unexpected cached value type %T", out)
	}
	return value, nil
}

func sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(detached, deadline)
	}
	return context.WithCancel(detached)
}
