// Package reveal sequences the disclosure of a scored round: a short
// "thinking" interlude, then one result per user action from the lowest round
// score to the highest, and finally the standings by cumulative total.
package reveal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

// Standing is one row of the final table.
type Standing struct {
	Position   int     `json:"position"`
	PlayerID   string  `json:"player_id"`
	Name       string  `json:"name"`
	TotalScore float64 `json:"totalScore"`
}

// State is a copy of the controller state.
type State struct {
	Thinking bool           `json:"thinking"`
	Message  string         `json:"message,omitempty"`
	Index    int            `json:"index"`
	Revealed []model.Player `json:"revealed"`
	Finished bool           `json:"finished"`
	// Standings is only set once every result has been revealed.
	Standings []Standing `json:"standings,omitempty"`
}

// Controller reveals results one at a time. It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	results   []model.Player
	messages  []string
	msgIdx    int
	thinking  bool
	index     int
	finished  bool
	standings []Standing
	onFinish  func([]Standing)
}

// New creates a controller over results, which must already be ordered for
// display (lowest round score first).
func New(results []model.Player, opts ...Option) *Controller {
	c := &Controller{
		results:  append([]model.Player(nil), results...),
		messages: ThinkingMessages,
		index:    -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.thinking = len(c.messages) > 0 && len(c.results) > 0
	if !c.thinking {
		c.startReveal()
	}
	return c
}

// Tick shows the next thinking message. It reports whether thinking is still
// under way; once the list is exhausted the first result is revealed.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.thinking {
		return false
	}
	c.msgIdx++
	if c.msgIdx >= len(c.messages) {
		c.startReveal()
		return false
	}
	return true
}

// Run cycles the thinking messages every interval, calling onMessage with each
// one, until thinking ends or ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration, onMessage func(string)) error {
	if msg, ok := c.message(); ok && onMessage != nil {
		onMessage(msg)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !c.Tick() {
				return nil
			}
			if msg, ok := c.message(); ok && onMessage != nil {
				onMessage(msg)
			}
		}
	}
}

// ShowNext reveals the next result. During thinking it cuts the interlude
// short and reveals the first result. ok is false when nothing was left.
func (c *Controller) ShowNext() (model.Player, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.thinking:
		c.startReveal()
	case c.index < len(c.results)-1:
		c.index++
		c.checkFinished()
	default:
		return model.Player{}, false
	}
	if c.index < 0 {
		return model.Player{}, false
	}
	return c.results[c.index], true
}

// Finished reports whether every result has been revealed.
func (c *Controller) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finished
}

// Standings returns the final table, highest total first. ok is false until
// the reveal is finished.
func (c *Controller) Standings() ([]Standing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finished {
		return nil, false
	}
	return append([]Standing(nil), c.standings...), true
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := State{
		Thinking: c.thinking,
		Index:    c.index,
		Revealed: append([]model.Player{}, c.results[:c.index+1]...),
		Finished: c.finished,
	}
	if c.thinking {
		st.Message = c.messages[c.msgIdx]
	}
	if c.finished {
		st.Standings = append([]Standing(nil), c.standings...)
	}
	return st
}

func (c *Controller) message() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.thinking {
		return "", false
	}
	return c.messages[c.msgIdx], true
}

func (c *Controller) startReveal() {
	c.thinking = false
	if len(c.results) > 0 {
		c.index = 0
	}
	c.checkFinished()
}

// checkFinished flips finished exactly once and computes the standings.
func (c *Controller) checkFinished() {
	if c.finished || c.index != len(c.results)-1 {
		return
	}
	c.finished = true
	c.standings = standings(c.results)
	if c.onFinish != nil {
		hook := c.onFinish
		table := append([]Standing(nil), c.standings...)
		go hook(table)
	}
}

func standings(results []model.Player) []Standing {
	sorted := append([]model.Player(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalScore > sorted[j].TotalScore
	})
	out := make([]Standing, len(sorted))
	for i, p := range sorted {
		out[i] = Standing{Position: i + 1, PlayerID: p.ID, Name: p.Name, TotalScore: p.TotalScore}
	}
	return out
}
