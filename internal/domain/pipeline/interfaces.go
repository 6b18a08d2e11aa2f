package pipeline

import (
	"context"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_pipeline.go github.com/carlospagolacorrea-rgb/RMW2/internal/domain/pipeline Scorer,GlobalCache,LocalCache

// Scorer is the remote verdict source, the slowest tier.
type Scorer interface {
	Score(ctx context.Context, prompt, response string) (model.ScoreResult, error)
}

// GlobalCache is the score store shared by every client. A miss is reported
// with found=false and a nil error.
type GlobalCache interface {
	Lookup(ctx context.Context, prompt, response string) (res model.ScoreResult, found bool, err error)
	Save(ctx context.Context, prompt, response string, res model.ScoreResult) error
}

// LocalCache is the process-local score cache. It never blocks on the network.
type LocalCache interface {
	Get(key model.ScoreKey) (model.ScoreResult, bool)
	Put(key model.ScoreKey, res model.ScoreResult) error
}

// Tier is one step of the resolution chain. Tiers are tried in order until
// one of them resolves the request; every earlier tier is then asked to
// remember the result.
type Tier interface {
	Name() string
	TryResolve(ctx context.Context, req model.ScoreRequest) (res model.ScoreResult, ok bool, err error)
	Populate(ctx context.Context, req model.ScoreRequest, res model.ScoreResult)
}
