// Package prompt derives the rotating set of daily prompt words from wall-clock
// time. Every function here is deterministic so independent processes agree on
// the active words without talking to each other.
package prompt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// WindowHours is the width of one rotation window.
	WindowHours = 4
	// WindowsPerDay is the number of rotation windows in a day.
	WindowsPerDay = 24 / WindowHours
	// PromptsPerWindow is the number of words active in a window.
	PromptsPerWindow = 3

	// daysPerYearSlot leaves room for leap years when folding the year into a window id.
	daysPerYearSlot = 366
	// warmupDraws are discarded so small seeds do not bias the first picks.
	warmupDraws = 4
	// maxDraws bounds rejection sampling; the scan fallback keeps the result
	// deterministic if it is ever exhausted.
	maxDraws = 1024
)

// ErrPoolTooSmall is returned when the pool holds fewer distinct words than a
// window needs.
var ErrPoolTooSmall = errors.New("prompt pool too small")

// Scheduler picks daily prompts for rotation windows.
type Scheduler struct {
	pool []string
	now  func() time.Time
}

// NewScheduler creates a Scheduler over DefaultPool unless WithPool is given.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		pool: distinct(DefaultPool),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pool returns a copy of the distinct words the scheduler draws from.
func (s *Scheduler) Pool() []string {
	return append([]string(nil), s.pool...)
}

// Window describes the rotation window active at a given instant.
type Window struct {
	ID           int
	Prompts      []string
	NextRotation time.Time
}

// Current returns the window active now.
func (s *Scheduler) Current() (Window, error) {
	return s.At(s.now())
}

// At returns the window active at t, evaluated in t's location.
func (s *Scheduler) At(t time.Time) (Window, error) {
	id := WindowID(t)
	prompts, err := s.DailyPrompts(id)
	if err != nil {
		return Window{}, err
	}
	return Window{ID: id, Prompts: prompts, NextRotation: NextRotation(t)}, nil
}

// DailyPrompts returns the words of window id.
func (s *Scheduler) DailyPrompts(id int) ([]string, error) {
	return Pick(s.pool, id)
}

// Countdown formats the time left until the next rotation as HH:MM:SS.
// expired is true once the boundary has been crossed and callers should refresh.
func (s *Scheduler) Countdown() (remaining string, expired bool) {
	now := s.now()
	return FormatCountdown(NextRotation(now).Sub(now))
}

// WindowID folds the year, ordinal day and 4-hour block of t into one integer
// that grows monotonically with time.
func WindowID(t time.Time) int {
	return ((t.Year()*daysPerYearSlot)+(t.YearDay()-1))*WindowsPerDay + t.Hour()/WindowHours
}

// NextRotation returns the first 4-hour boundary strictly after t, in t's
// location.
func NextRotation(t time.Time) time.Time {
	block := t.Hour()/WindowHours + 1
	return time.Date(t.Year(), t.Month(), t.Day(), block*WindowHours, 0, 0, 0, t.Location())
}

// FormatCountdown renders d as HH:MM:SS. Non-positive durations report expired.
func FormatCountdown(d time.Duration) (string, bool) {
	if d <= 0 {
		return "00:00:00", true
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60), false
}

// Pick deterministically selects PromptsPerWindow distinct words from pool,
// seeded by id. Blank and repeated words are ignored.
func Pick(pool []string, id int) ([]string, error) {
	pool = distinct(pool)
	if len(pool) < PromptsPerWindow {
		return nil, fmt.Errorf("%w: need %d distinct words, have %d", ErrPoolTooSmall, PromptsPerWindow, len(pool))
	}

	rng := newSplitMix64(uint64(int64(id))) //nolint:gosec // window ids are non-negative in practice
	for range warmupDraws {
		rng.next()
	}

	n := uint64(len(pool))
	chosen := make(map[int]struct{}, PromptsPerWindow)
	out := make([]string, 0, PromptsPerWindow)
	for draws := 0; len(out) < PromptsPerWindow && draws < maxDraws; draws++ {
		idx := int(rng.next() % n) //nolint:gosec // bounded by pool length
		if _, dup := chosen[idx]; dup {
			continue
		}
		chosen[idx] = struct{}{}
		out = append(out, pool[idx])
	}
	for idx := 0; len(out) < PromptsPerWindow; idx++ {
		if _, dup := chosen[idx]; !dup {
			chosen[idx] = struct{}{}
			out = append(out, pool[idx])
		}
	}
	return out, nil
}

func distinct(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
