package prompt

import "time"

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithPool replaces the word pool. Blank and repeated words are ignored.
func WithPool(pool []string) Option {
	return func(s *Scheduler) {
		s.pool = distinct(pool)
	}
}

// WithClock sets the time source used by Current and Countdown.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}
