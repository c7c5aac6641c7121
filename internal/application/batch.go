package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
)

// BatchResult is the outcome of evaluating one session within a batch.
// Err is set for sessions that violated the input contract; the batch
// as a whole continues past them.
type BatchResult struct {
	RunID   string
	Session *domain.SessionLog
	Report  *domain.Report
	Log     *domain.EvaluationLog
	Err     error
}

// BatchRunner evaluates many sessions concurrently. Sessions are
// independent, so the only coordination is the concurrency bound and an
// optional start-rate limiter; every session gets its own fresh
// evaluator instances via the pipeline.
type BatchRunner struct {
	pipeline *Pipeline
	cfg      BatchConfig
	logger   *zap.Logger
	limiter  *rate.Limiter
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets the structured logger. Defaults to a no-op
// logger.
func WithBatchLogger(logger *zap.Logger) BatchOption {
	return func(br *BatchRunner) { br.logger = logger }
}

// NewBatchRunner creates a runner over the given pipeline.
func NewBatchRunner(pipeline *Pipeline, cfg BatchConfig, opts ...BatchOption) *BatchRunner {
	br := &BatchRunner{
		pipeline: pipeline,
		cfg:      cfg,
		logger:   zap.NewNop(),
	}
	if cfg.SessionsPerSecond > 0 {
		br.limiter = rate.NewLimiter(rate.Limit(cfg.SessionsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(br)
	}
	return br
}

// Run evaluates all sessions and returns one result per session, in
// input order. Per-session contract violations are recorded on the
// result; Run itself only fails on cancellation.
func (br *BatchRunner) Run(ctx context.Context, sessions []*domain.SessionLog) ([]BatchResult, error) {
	results := make([]BatchResult, len(sessions))

	g, ctx := errgroup.WithContext(ctx)
	if br.cfg.Concurrency > 0 {
		g.SetLimit(br.cfg.Concurrency)
	}

	for i, session := range sessions {
		i, session := i, session
		g.Go(func() error {
			if br.limiter != nil {
				if err := br.limiter.Wait(ctx); err != nil {
					return err
				}
			}

			runID := uuid.NewString()
			report, evalLog, err := br.pipeline.Run(ctx, session)
			results[i] = BatchResult{
				RunID:   runID,
				Session: session,
				Report:  report,
				Log:     evalLog,
				Err:     err,
			}
			if err != nil {
				// Contract violations are per-session findings for the
				// caller, not batch failures.
				br.logger.Warn("session rejected",
					zap.String("run_id", runID), zap.Error(err))
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
