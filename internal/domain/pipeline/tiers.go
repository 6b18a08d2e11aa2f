package pipeline

import (
	"context"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// Tier names, also used as metric labels.
const (
	TierLocal  = "local"
	TierGlobal = "global"
	TierScorer = "scorer"
)

// LocalTier serves results from the process-local cache.
type LocalTier struct {
	cache  LocalCache
	logger logger.Logger
}

// NewLocalTier wraps a LocalCache.
func NewLocalTier(c LocalCache, l logger.Logger) *LocalTier {
	return &LocalTier{cache: c, logger: l}
}

func (t *LocalTier) Name() string { return TierLocal }

func (t *LocalTier) TryResolve(_ context.Context, req model.ScoreRequest) (model.ScoreResult, bool, error) {
	res, ok := t.cache.Get(req.Key())
	return res, ok, nil
}

func (t *LocalTier) Populate(ctx context.Context, req model.ScoreRequest, res model.ScoreResult) {
	if err := t.cache.Put(req.Key(), res); err != nil {
		metrics.RecordPersistenceWarning("local_cache")
		t.logger.Warn(ctx, "local cache persist failed", logger.String("key", req.Key().String()), logger.Error(err))
	}
}

// GlobalTier consults the shared cache. Lookup failures count as misses so an
// unreachable store only costs a scorer call.
type GlobalTier struct {
	cache  GlobalCache
	logger logger.Logger
}

// NewGlobalTier wraps a GlobalCache.
func NewGlobalTier(c GlobalCache, l logger.Logger) *GlobalTier {
	return &GlobalTier{cache: c, logger: l}
}

func (t *GlobalTier) Name() string { return TierGlobal }

func (t *GlobalTier) TryResolve(ctx context.Context, req model.ScoreRequest) (model.ScoreResult, bool, error) {
	res, found, err := t.cache.Lookup(ctx, req.Prompt, req.Response)
	if err != nil {
		metrics.RecordErrorByComponent("pipeline", "global_lookup")
		t.logger.Warn(ctx, "global cache lookup failed, treating as miss",
			logger.String("key", req.Key().String()), logger.Error(err))
		return model.ScoreResult{}, false, nil
	}
	if found && res.IsError {
		// a store holding an error placeholder is not trusted
		return model.ScoreResult{}, false, nil
	}
	return res, found, nil
}

func (t *GlobalTier) Populate(ctx context.Context, req model.ScoreRequest, res model.ScoreResult) {
	if err := t.cache.Save(ctx, req.Prompt, req.Response, res); err != nil {
		metrics.RecordPersistenceWarning("global_cache")
		t.logger.Warn(ctx, "global cache write failed",
			logger.String("key", req.Key().String()), logger.Error(err))
	}
}

// ScorerTier asks the remote scorer. It is always the last tier, so it never
// populates anything itself. A result with IsError set is still a resolution:
// the pipeline hands it back with its diagnostic comment and skips caching.
type ScorerTier struct {
	scorer Scorer
}

// NewScorerTier wraps a Scorer.
func NewScorerTier(s Scorer) *ScorerTier {
	return &ScorerTier{scorer: s}
}

func (t *ScorerTier) Name() string { return TierScorer }

func (t *ScorerTier) TryResolve(ctx context.Context, req model.ScoreRequest) (model.ScoreResult, bool, error) {
	res, err := t.scorer.Score(ctx, req.Prompt, req.Response)
	if err != nil {
		return model.ScoreResult{}, false, err
	}
	return res, true, nil
}

func (t *ScorerTier) Populate(context.Context, model.ScoreRequest, model.ScoreResult) {}
