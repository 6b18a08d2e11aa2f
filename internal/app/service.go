// Package service wires the scoring pipeline, the stores and the multiplayer
// sessions into the operations exposed by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/cache"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/mq/queue"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/mq/worker"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/repository"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/storage"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/common/clock"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/pipeline"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/prompt"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/scoring"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize        = 1000
	defaultLeaderboardLimit = 10
	defaultRevealInterval   = 1200 * time.Millisecond
	userPlaysLimit          = 50
)

// Backend is the remote model: it scores answers and invents round prompts.
type Backend interface {
	scoring.Scorer
	scoring.PromptGenerator
}

// Service implements the API dependencies of the game.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend     Backend
	scoreCache  repository.ScoreCache
	leaderboard repository.Leaderboard
	plays       repository.PlayStore
	state       *storage.StateStore
	local       *cache.Local
	scheduler   *prompt.Scheduler
	queue       *queue.InMemoryQueue
	pool        *worker.Pool
	pipeline    *pipeline.Pipeline

	sessionsMu sync.RWMutex
	sessions   map[string]*sessionEntry

	// Configuration
	workerCount       int
	queueSize         int
	localCacheSize    int
	leaderboardLimit  int
	revealInterval    time.Duration
	wordPool          []string
	revealMessages    []string
	revealMessagesSet bool
	clock             clock.Clock

	// State
	started    bool
	ownedStore *repository.TreapStore
	bgCtx      context.Context
	cancel     context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU(),
		queueSize:        defaultQueueSize,
		localCacheSize:   cache.DefaultSize,
		leaderboardLimit: defaultLeaderboardLimit,
		revealInterval:   defaultRevealInterval,
		clock:            &clock.DefaultClock{},
		sessions:         make(map[string]*sessionEntry),
		logger:           logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components that were not injected and starts the
// persistence workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting game service...")

	// workers and reveals outlive the request that started the service
	s.bgCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if s.state == nil {
		st, err := storage.Open(ctx, "", storage.WithLogger(s.logger.Named("state")))
		if err != nil {
			return fmt.Errorf("open state: %w", err)
		}
		s.state = st
	}
	local, err := cache.NewLocal(s.localCacheSize,
		cache.WithPersister(s.state),
		cache.WithLogger(s.logger.Named("local-cache")))
	if err != nil {
		return fmt.Errorf("create local cache: %w", err)
	}
	loaded := local.Load(s.state.ScoreCache())
	s.local = local

	if s.scoreCache == nil {
		s.scoreCache = repository.NewMemoryScoreCache()
	}
	if s.leaderboard == nil {
		s.ownedStore = repository.NewTreapStore(s.bgCtx, repository.WithClock(s.clock))
		s.leaderboard = s.ownedStore
	}
	if s.plays == nil {
		s.plays = repository.NewMemoryPlays()
	}
	if s.backend == nil {
		// credentials are missing; every score degrades to a configuration error
		s.backend = scoring.NewGeminiScorer(scoring.WithLogger(s.logger.Named("scorer")))
	}

	schedOpts := []prompt.Option{prompt.WithClock(s.clock.Now)}
	if len(s.wordPool) > 0 {
		schedOpts = append(schedOpts, prompt.WithPool(s.wordPool))
	}
	s.scheduler = prompt.NewScheduler(schedOpts...)

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize), queue.WithClock(s.clock.Now))
	s.pool = worker.NewPool(s.workerCount, s.queue,
		worker.Sinks{Cache: s.scoreCache, Rankings: s.leaderboard, Plays: s.plays},
		s.logger.Named("persist"),
		worker.WithPermanentErrors(repository.ErrInvalidRecord, repository.ErrNotCacheable, repository.ErrEmptyUserID),
	)
	s.pool.Start(s.bgCtx)

	p, err := pipeline.NewDefault(s.local,
		&writeBehindCache{store: s.scoreCache, enqueue: s.enqueue},
		s.backend,
		pipeline.WithLogger(s.logger.Named("pipeline")))
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	s.pipeline = p

	s.started = true
	s.logger.Info(ctx, "game service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("localCacheLoaded", loaded),
	)
	return nil
}

// Stop ends every reveal, drains the persistence queue and releases owned
// stores.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping game service...")

	s.sessionsMu.Lock()
	for id, e := range s.sessions {
		e.stop()
		delete(s.sessions, id)
	}
	s.sessionsMu.Unlock()
	metrics.UpdateActiveSessions(0)

	err := s.pool.Shutdown(ctx)
	s.cancel()
	if s.ownedStore != nil {
		_ = s.ownedStore.Close()
		s.ownedStore = nil
		s.leaderboard = nil
	}

	s.started = false
	s.logger.Info(ctx, "game service stopped")
	return err
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// enqueue defers a store write to the persistence workers.
func (s *Service) enqueue(ctx context.Context, job model.PersistJob) error {
	job.ID = uuid.NewString()
	return s.queue.Enqueue(ctx, job)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"leaderboardLimit": s.leaderboardLimit,
	}
	if !s.started {
		return stats
	}

	s.sessionsMu.RLock()
	active := len(s.sessions)
	s.sessionsMu.RUnlock()

	queueLen := s.queue.Len(ctx)
	stats["queueLength"] = queueLen
	stats["localCacheEntries"] = s.local.Len()
	stats["activeSessions"] = active
	stats["pipeline"] = s.pipeline.Stats()
	if counter, ok := s.leaderboard.(interface{ Count(context.Context) int }); ok {
		stats["rankedRows"] = counter.Count(ctx)
	}

	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateLocalCacheSize(s.local.Len())
	metrics.UpdateActiveSessions(active)
	return stats
}

// writeBehindCache is the pipeline's view of the global cache: reads go to the
// store, writes are queued so a slow store never delays a verdict.
type writeBehindCache struct {
	store   repository.ScoreCache
	enqueue func(context.Context, model.PersistJob) error
}

func (c *writeBehindCache) Lookup(ctx context.Context, prompt, response string) (model.ScoreResult, bool, error) {
	return c.store.Lookup(ctx, prompt, response)
}

func (c *writeBehindCache) Save(ctx context.Context, prompt, response string, res model.ScoreResult) error {
	if !res.Cacheable() {
		return repository.ErrNotCacheable
	}
	return c.enqueue(ctx, model.NewCacheWriteJob(model.ScoreRequest{Prompt: prompt, Response: response}, res))
}
