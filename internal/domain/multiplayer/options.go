package multiplayer

import (
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator overrides how player ids are minted.
func WithIDGenerator(next func() string) Option {
	return func(s *Session) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithRoundScoredHook registers a callback run after each round reaches
// RESULTS, outside the session lock.
func WithRoundScoredHook(fn func(Snapshot)) Option {
	return func(s *Session) {
		s.onRoundScored = fn
	}
}
