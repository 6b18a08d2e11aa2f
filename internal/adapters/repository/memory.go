package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

// MemoryScoreCache is a process-wide ScoreCache for single-node deployments.
type MemoryScoreCache struct {
	mu      sync.RWMutex
	entries map[model.ScoreKey]model.ScoreResult
}

var _ ScoreCache = (*MemoryScoreCache)(nil)

// NewMemoryScoreCache returns an empty cache.
func NewMemoryScoreCache() *MemoryScoreCache {
	return &MemoryScoreCache{entries: make(map[model.ScoreKey]model.ScoreResult)}
}

// Lookup implements ScoreCache.
func (c *MemoryScoreCache) Lookup(_ context.Context, prompt, response string) (model.ScoreResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[model.NewScoreKey(prompt, response)]
	return res, ok, nil
}

// Save implements ScoreCache. An existing verdict is never replaced.
func (c *MemoryScoreCache) Save(_ context.Context, prompt, response string, res model.ScoreResult) error {
	if !res.Cacheable() {
		return ErrNotCacheable
	}
	key := model.NewScoreKey(prompt, response)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = res
	}
	return nil
}

// Len returns the number of cached verdicts.
func (c *MemoryScoreCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// MemoryPlays is an in-memory PlayStore.
type MemoryPlays struct {
	mu    sync.RWMutex
	now   func() time.Time
	plays map[string][]model.UserPlay // oldest first
}

var _ PlayStore = (*MemoryPlays)(nil)

// NewMemoryPlays returns an empty history store.
func NewMemoryPlays() *MemoryPlays {
	return &MemoryPlays{now: time.Now, plays: make(map[string][]model.UserPlay)}
}

// SaveUserPlay implements PlayStore.
func (p *MemoryPlays) SaveUserPlay(_ context.Context, play model.UserPlay) error {
	play, err := normalizePlay(play, p.now())
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	list := append(p.plays[play.UserID], play)
	if len(list) > MaxUserPlays {
		list = list[len(list)-MaxUserPlays:]
	}
	p.plays[play.UserID] = list
	return nil
}

// UserPlays implements PlayStore.
func (p *MemoryPlays) UserPlays(_ context.Context, userID string, n int) ([]model.UserPlay, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	list := p.plays[userID]
	out := make([]model.UserPlay, 0, min(n, len(list)))
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func normalizePlay(play model.UserPlay, now time.Time) (model.UserPlay, error) {
	play.UserID = strings.TrimSpace(play.UserID)
	if play.UserID == "" {
		return play, ErrEmptyUserID
	}
	if play.CreatedAt.IsZero() {
		play.CreatedAt = now
	}
	play.CreatedAt = play.CreatedAt.UTC()
	return play, nil
}
