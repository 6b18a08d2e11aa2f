// Package cache implements the process-local score cache on a bounded LRU.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// DefaultSize bounds the cache when no size is configured.
const DefaultSize = 10000

// ErrErrorResult is returned by Put for results that must never be cached.
var ErrErrorResult = errors.New("error results are not cacheable")

// Persister stores a snapshot of the cache between runs.
type Persister interface {
	SaveScoreCache(entries map[string]model.ScoreResult) error
}

// Local is a bounded key to ScoreResult cache. It satisfies pipeline.LocalCache.
type Local struct {
	// mu serializes Put so snapshots reach the persister in write order.
	mu        sync.Mutex
	lru       *lru.Cache[model.ScoreKey, model.ScoreResult]
	persister Persister
	logger    logger.Logger
}

// NewLocal creates a cache holding at most size entries.
func NewLocal(size int, opts ...Option) (*Local, error) {
	if size <= 0 {
		size = DefaultSize
	}
	l, err := lru.New[model.ScoreKey, model.ScoreResult](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	c := &Local{lru: l, logger: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Load seeds the cache with previously persisted entries. Error results are
// skipped. It does not write back to the persister.
func (c *Local) Load(entries map[string]model.ScoreResult) int {
	n := 0
	for k, v := range entries {
		if !v.Cacheable() {
			continue
		}
		c.lru.Add(model.ScoreKey(k), v)
		n++
	}
	metrics.UpdateLocalCacheSize(c.lru.Len())
	return n
}

// Get returns the cached result for key.
func (c *Local) Get(key model.ScoreKey) (model.ScoreResult, bool) {
	return c.lru.Get(key)
}

// Put stores res under key and persists the new contents. The in-memory
// write always succeeds for cacheable results; a returned error only means
// the snapshot could not be saved.
func (c *Local) Put(key model.ScoreKey, res model.ScoreResult) error {
	if !res.Cacheable() {
		return ErrErrorResult
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, res)
	metrics.UpdateLocalCacheSize(c.lru.Len())
	if c.persister == nil {
		return nil
	}
	if err := c.persister.SaveScoreCache(c.snapshot()); err != nil {
		c.logger.Warn(context.Background(), "local cache snapshot failed",
			logger.String("key", key.String()), logger.Error(err))
		return fmt.Errorf("persist local cache: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Local) Len() int { return c.lru.Len() }

// Snapshot returns a copy of every cached entry.
func (c *Local) Snapshot() map[string]model.ScoreResult {
	return c.snapshot()
}

func (c *Local) snapshot() map[string]model.ScoreResult {
	keys := c.lru.Keys()
	out := make(map[string]model.ScoreResult, len(keys))
	for _, k := range keys {
		if v, ok := c.lru.Peek(k); ok {
			out[k.String()] = v
		}
	}
	return out
}
