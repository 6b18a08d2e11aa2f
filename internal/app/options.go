package service

import (
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/repository"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/storage"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/common/clock"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of persistence workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the persistence queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLocalCacheSize bounds the local score cache.
func WithLocalCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.localCacheSize = size
		}
	}
}

// WithLeaderboardLimit sets how many rows a ranking read returns.
func WithLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.leaderboardLimit = n
		}
	}
}

// WithRevealInterval sets the pace of the thinking messages.
func WithRevealInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.revealInterval = d
		}
	}
}

// WithWordPool replaces the daily prompt pool.
func WithWordPool(words []string) Option {
	return func(s *Service) {
		if len(words) > 0 {
			s.wordPool = words
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source of the prompt rotation and the stores.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithScorer sets the remote scorer and round prompt generator.
func WithScorer(b Backend) Option {
	return func(s *Service) { s.backend = b }
}

// WithScoreCache sets the global score cache. Defaults to memory.
func WithScoreCache(c repository.ScoreCache) Option {
	return func(s *Service) { s.scoreCache = c }
}

// WithLeaderboard sets the ranking store. Defaults to the treap store.
func WithLeaderboard(l repository.Leaderboard) Option {
	return func(s *Service) { s.leaderboard = l }
}

// WithPlayStore sets the play history store. Defaults to memory.
func WithPlayStore(p repository.PlayStore) Option {
	return func(s *Service) { s.plays = p }
}

// WithStateStore sets the local profile and score cache persistence.
func WithStateStore(st *storage.StateStore) Option {
	return func(s *Service) { s.state = st }
}

// WithRevealMessages replaces the thinking messages shown before a reveal.
func WithRevealMessages(msgs []string) Option {
	return func(s *Service) {
		s.revealMessages = msgs
		s.revealMessagesSet = true
	}
}
