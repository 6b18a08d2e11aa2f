package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/repository"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/storage"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/config"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/scoring"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
)

// FromConfig turns cfg into service options: the Gemini scorer, the local
// state file and, for the redis backend, the three Redis repositories. The
// returned closer releases whatever connections were opened.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) ([]Option, func() error, error) {
	if log == nil {
		log = logger.Nop()
	}
	noop := func() error { return nil }

	backend := scoring.NewGeminiScorer(
		scoring.WithAPIKey(cfg.GeminiAPIKey),
		scoring.WithModel(cfg.GeminiModel),
		scoring.WithBaseURL(cfg.GeminiBaseURL),
		scoring.WithTimeout(time.Duration(cfg.ScorerTimeoutMS)*time.Millisecond),
		scoring.WithRateLimit(cfg.ScorerRatePerSec, cfg.ScorerBurst),
		scoring.WithLogger(log.Named("scorer")),
	)
	if !backend.Configured() {
		log.Warn(ctx, "no scorer API key configured; scoring requests will fail")
	}

	st, err := storage.Open(ctx, cfg.StatePath, storage.WithLogger(log.Named("state")))
	switch {
	case errors.Is(err, storage.ErrCorruptState):
		log.Warn(ctx, "state file unreadable, starting from an empty state",
			logger.String("path", cfg.StatePath), logger.Error(err))
	case err != nil:
		return nil, noop, fmt.Errorf("open state: %w", err)
	}

	opts := []Option{
		WithLogger(log),
		WithScorer(backend),
		WithStateStore(st),
		WithWorkerCount(cfg.PersistWorkers),
		WithQueueSize(cfg.PersistQueueSize),
		WithLocalCacheSize(cfg.LocalCacheSize),
		WithLeaderboardLimit(cfg.LeaderboardLimit),
		WithRevealInterval(time.Duration(cfg.RevealIntervalMS) * time.Millisecond),
		WithWordPool(cfg.WordPool),
	}

	if cfg.Backend != config.BackendRedis {
		return opts, noop, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	rcfg := &repository.RedisConfig{RedisClient: client}
	fail := func(what string, err error) ([]Option, func() error, error) {
		_ = client.Close()
		return nil, noop, fmt.Errorf("%s: %w", what, err)
	}

	scores, err := repository.NewRedisScoreCache(ctx, rcfg)
	if err != nil {
		return fail("redis score cache", err)
	}
	board, err := repository.NewRedisLeaderboard(ctx, rcfg)
	if err != nil {
		return fail("redis leaderboard", err)
	}
	plays, err := repository.NewRedisPlays(ctx, rcfg)
	if err != nil {
		return fail("redis plays", err)
	}
	log.Info(ctx, "using redis backend", logger.String("addr", cfg.RedisAddr))

	opts = append(opts, WithScoreCache(scores), WithLeaderboard(board), WithPlayStore(plays))
	return opts, client.Close, nil
}
