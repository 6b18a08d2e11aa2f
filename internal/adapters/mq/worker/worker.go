package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/adapters/mq/queue"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/logger"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultRetries        = 3
	defaultBackoff        = 100 * time.Millisecond
	defaultJobTimeout     = 5 * time.Second
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// ErrUnknownJob is returned for jobs whose kind has no sink.
var ErrUnknownJob = errors.New("unknown job kind")

// ScoreWriter stores a verdict in the global cache.
type ScoreWriter interface {
	Save(ctx context.Context, prompt, response string, res model.ScoreResult) error
}

// RankingWriter submits a ranking row.
type RankingWriter interface {
	Submit(ctx context.Context, rec model.RankingRecord) (bool, error)
}

// PlayWriter appends a play to a user's history.
type PlayWriter interface {
	SaveUserPlay(ctx context.Context, play model.UserPlay) error
}

// Sinks are the stores jobs are written to. A nil sink fails its jobs with
// ErrUnknownJob.
type Sinks struct {
	Cache    ScoreWriter
	Rankings RankingWriter
	Plays    PlayWriter
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until the queue is drained or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing persistence jobs.
type InMemoryWorker struct {
	queue Queue
	sinks Sinks
	name  string

	retries    int
	backoff    time.Duration
	jobTimeout time.Duration
	permanent  []error

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, sinks Sinks, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		sinks:      sinks,
		name:       "worker",
		retries:    defaultRetries,
		backoff:    defaultBackoff,
		jobTimeout: defaultJobTimeout,
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Warn(ctx, "persistence job dropped",
					logger.String("job_id", job.ID),
					logger.String("kind", string(job.Kind)),
					logger.Error(err))
			}
		}
	}
}

// Shutdown stops the worker without waiting for the queue to drain.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob writes one job, retrying transient failures with exponential
// backoff. A job that still fails is a persistence warning: it is counted
// and logged, never surfaced to the player.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerJobLatency(float64(time.Since(start).Milliseconds()))
	}()

	// a job already dequeued is finished even while the pool shuts down
	jobCtx := context.WithoutCancel(ctx)

	var err error
	delay := w.backoff
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			metrics.RecordWorkerRetry()
			select {
			case <-time.After(delay):
			case <-w.shutdown:
				// keep trying without sleeping so shutdown is not held up
			}
			delay *= 2
		}
		err = w.write(jobCtx, job)
		if err == nil || w.isPermanent(err) {
			break
		}
		w.logger.Debug(ctx, "persistence write failed",
			logger.String("job_id", job.ID),
			logger.Int("attempt", attempt+1),
			logger.Error(err))
	}

	if err != nil {
		metrics.RecordWorkerJobFinished(string(job.Kind), "failed")
		metrics.RecordPersistenceWarning(string(job.Kind))
		metrics.RecordErrorByComponent("worker", string(job.Kind))
		return err
	}
	metrics.RecordWorkerJobFinished(string(job.Kind), "ok")
	return nil
}

func (w *InMemoryWorker) write(ctx context.Context, job queue.Job) error { //nolint:gocritic // hugeParam
	ctx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	switch job.Kind {
	case model.JobCacheWrite:
		if w.sinks.Cache == nil {
			return ErrUnknownJob
		}
		return w.sinks.Cache.Save(ctx, job.Request.Prompt, job.Request.Response, job.Result)
	case model.JobRanking:
		if w.sinks.Rankings == nil {
			return ErrUnknownJob
		}
		_, err := w.sinks.Rankings.Submit(ctx, job.Ranking)
		return err
	case model.JobPlay:
		if w.sinks.Plays == nil {
			return ErrUnknownJob
		}
		return w.sinks.Plays.SaveUserPlay(ctx, job.Play)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJob, job.Kind)
	}
}

func (w *InMemoryWorker) isPermanent(err error) bool {
	if errors.Is(err, ErrUnknownJob) {
		return true
	}
	for _, p := range w.permanent {
		if errors.Is(err, p) {
			return true
		}
	}
	return false
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool. opts apply to every worker.
func NewPool(workerCount int, q Queue, sinks Sinks, l logger.Logger, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	if l == nil {
		l = logger.Nop()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  l,
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithLogger(l), WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, sinks, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it. Workers
// still busy when ctx or the pool timeout expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			stopCtx, stop := context.WithTimeout(context.Background(), workerShutdownTimeout)
			_ = worker.Shutdown(stopCtx)
			stop()
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		return fmt.Errorf("worker pool drain: %w", context.DeadlineExceeded)
	}
	return nil
}
