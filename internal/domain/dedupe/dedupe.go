// Package dedupe coalesces concurrent identical requests so only one of them
// reaches the expensive backend.
package dedupe

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Coalescer runs fn once per key among callers that overlap in time.
type Coalescer[T any] interface {
	// Do runs fn for key unless an identical call is already in flight, in
	// which case it waits for that call. shared reports whether the result was
	// produced for another caller too. Cancelling ctx stops the wait but not
	// the shared call.
	Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (v T, shared bool, err error)

	// InFlight returns the number of keys currently being resolved.
	InFlight() int64
}

type group[T any] struct {
	g        singleflight.Group
	inflight atomic.Int64
	onShared func()
}

// New creates a Coalescer.
func New[T any](opts ...Option) Coalescer[T] {
	cfg := options{onShared: func() {}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &group[T]{onShared: cfg.onShared}
}

func (c *group[T]) Do(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, bool, error) {
	// The shared call must outlive any single waiter.
	callCtx := context.WithoutCancel(ctx)
	ch := c.g.DoChan(key, func() (any, error) {
		c.inflight.Add(1)
		defer c.inflight.Add(-1)
		return fn(callCtx)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case r := <-ch:
		if r.Shared {
			c.onShared()
		}
		if r.Err != nil {
			return zero, r.Shared, r.Err
		}
		return r.Val.(T), r.Shared, nil //nolint:forcetypeassert // only fn's T is stored
	}
}

func (c *group[T]) InFlight() int64 {
	return c.inflight.Load()
}
