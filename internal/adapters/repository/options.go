package repository

import (
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/common/clock"
)

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithClock sets the time source deciding which daily view is current.
func WithClock(c clock.Clock) Option {
	return func(s *TreapStore) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithDailyRetention sets how many past daily views are kept in memory.
func WithDailyRetention(days int) Option {
	return func(s *TreapStore) {
		if days > 0 {
			s.retention = days
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
