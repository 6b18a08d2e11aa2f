// Package pipeline resolves a score for a (prompt, response) pair through an
// ordered chain of tiers: the local cache, the shared global cache and
// finally the remote scorer. At most one scorer call is made per normalized
// pair at a time, and only successful verdicts are ever cached.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/dedupe"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/scoring"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

var (
	// ErrNoTiers is returned by New when no tier was configured.
	ErrNoTiers = errors.New("pipeline has no tiers")
	// ErrUnresolved means every tier missed without reporting an error.
	ErrUnresolved = errors.New("no tier resolved the request")
)

// Resolver is implemented by Pipeline and consumed by the multiplayer session
// and the HTTP layer.
type Resolver interface {
	Resolve(ctx context.Context, prompt, response string) (model.ScoreResult, error)
}

// Stats counts pipeline outcomes since start.
type Stats struct {
	Requests    int64            `json:"requests"`
	Hits        map[string]int64 `json:"hits"`
	Failures    int64            `json:"failures"`
	Coalesced   int64            `json:"coalesced"`
	InFlight    int64            `json:"in_flight"`
	LastLatency time.Duration    `json:"last_latency_ns"`
}

// Pipeline is the ordered tier chain.
type Pipeline struct {
	tiers     []Tier
	coalescer dedupe.Coalescer[model.ScoreResult]
	logger    logger.Logger

	requests    atomic.Int64
	failures    atomic.Int64
	coalesced   atomic.Int64
	lastLatency atomic.Int64
	hits        []atomic.Int64
}

// New builds a pipeline from the given tiers, fastest first.
func New(tiers []Tier, opts ...Option) (*Pipeline, error) {
	if len(tiers) == 0 {
		return nil, ErrNoTiers
	}
	p := &Pipeline{
		tiers:  append([]Tier(nil), tiers...),
		logger: logger.Nop(),
		hits:   make([]atomic.Int64, len(tiers)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.coalescer = dedupe.New[model.ScoreResult](dedupe.WithSharedHook(func() {
		p.coalesced.Add(1)
		metrics.RecordInflightShared()
	}))
	return p, nil
}

// NewDefault builds the local → global → scorer chain.
func NewDefault(local LocalCache, global GlobalCache, scorer Scorer, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{logger: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return New([]Tier{
		NewLocalTier(local, p.logger.Named("local")),
		NewGlobalTier(global, p.logger.Named("global")),
		NewScorerTier(scorer),
	}, opts...)
}

// Resolve returns the score for prompt and response.
//
// Configuration and invalid-request failures are returned as errors together
// with the degraded result. Every other failure is folded into a result with
// IsError set and a nil error, so callers can always show something.
func (p *Pipeline) Resolve(ctx context.Context, prompt, response string) (model.ScoreResult, error) {
	start := time.Now()
	p.requests.Add(1)
	defer func() { p.lastLatency.Store(int64(time.Since(start))) }()

	req := model.ScoreRequest{Prompt: prompt, Response: response}
	if req.Blank() {
		err := &scoring.Error{Kind: scoring.ErrInvalidRequest, Op: "pipeline.Resolve", Err: errors.New("prompt and response are required")}
		p.failures.Add(1)
		return scoring.Degrade(err), err
	}

	res, _, err := p.coalescer.Do(ctx, req.Key().String(), func(ctx context.Context) (model.ScoreResult, error) {
		return p.resolve(ctx, req)
	})
	if err != nil {
		p.failures.Add(1)
		metrics.RecordErrorByComponent("pipeline", scoring.KindName(err))
		if scoring.Fatal(err) {
			return scoring.Degrade(err), err
		}
		p.logger.Warn(ctx, "score degraded",
			logger.String("key", req.Key().String()),
			logger.String("kind", scoring.KindName(err)),
			logger.Error(err))
		return scoring.Degrade(err), nil
	}
	return res, nil
}

func (p *Pipeline) resolve(ctx context.Context, req model.ScoreRequest) (model.ScoreResult, error) {
	for i, tier := range p.tiers {
		res, ok, err := tier.TryResolve(ctx, req)
		if err != nil {
			metrics.RecordCacheLookup(tier.Name(), "error")
			return model.ScoreResult{}, fmt.Errorf("%s tier: %w", tier.Name(), err)
		}
		if !ok {
			metrics.RecordCacheLookup(tier.Name(), "miss")
			continue
		}
		if !res.Cacheable() {
			// the tier's own error result reaches the caller as is, never cached
			metrics.RecordCacheLookup(tier.Name(), "error")
			metrics.RecordErrorByComponent("pipeline", tier.Name()+"_error_result")
			p.failures.Add(1)
			p.logger.Warn(ctx, "tier returned an error result",
				logger.String("tier", tier.Name()),
				logger.String("key", req.Key().String()),
				logger.String("comment", res.Comment))
			return res, nil
		}
		metrics.RecordCacheLookup(tier.Name(), "hit")
		p.hits[i].Add(1)
		for j := i - 1; j >= 0; j-- {
			p.tiers[j].Populate(ctx, req, res)
		}
		p.logger.Debug(ctx, "score resolved",
			logger.String("tier", tier.Name()),
			logger.String("key", req.Key().String()),
			logger.Float64("score", res.Score))
		return res, nil
	}
	return model.ScoreResult{}, &scoring.Error{Kind: scoring.ErrUpstream, Op: "pipeline.resolve", Err: ErrUnresolved}
}

// Stats returns a snapshot of the counters.
func (p *Pipeline) Stats() Stats {
	hits := make(map[string]int64, len(p.tiers))
	for i, t := range p.tiers {
		hits[t.Name()] = p.hits[i].Load()
	}
	return Stats{
		Requests:    p.requests.Load(),
		Hits:        hits,
		Failures:    p.failures.Load(),
		Coalesced:   p.coalesced.Load(),
		InFlight:    p.coalescer.InFlight(),
		LastLatency: time.Duration(p.lastLatency.Load()),
	}
}
