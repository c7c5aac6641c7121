// Package application orchestrates the evaluator family over recorded
// sessions: per-session pipeline runs, configuration loading, input
// validation, and concurrent batch processing.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodchoice-lab/stopsignal/infrastructure/evaluators"
	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

// EvaluatorMiddleware decorates an evaluator with a cross-cutting
// concern such as tracing.
type EvaluatorMiddleware func(ports.Evaluator) ports.Evaluator

// Pipeline runs the evaluator set matching a session's game variant and
// merges the evaluators' output into one Report plus one EvaluationLog.
//
// A Pipeline is safe for concurrent use: every Run constructs fresh
// evaluator instances, so no per-session accumulation is ever shared
// between runs. Given the same immutable session, two runs produce
// identical reports and logs.
type Pipeline struct {
	cfg        evaluators.Config
	validator  *validator.Validate
	logger     *zap.Logger
	metrics    ports.MetricsCollector
	middleware []EvaluatorMiddleware
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithConfig overrides the default evaluator configuration.
func WithConfig(cfg evaluators.Config) PipelineOption {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics attaches a metrics collector recording run latency and
// finding counts.
func WithMetrics(metrics ports.MetricsCollector) PipelineOption {
	return func(p *Pipeline) { p.metrics = metrics }
}

// WithEvaluatorMiddleware appends a decorator applied to every
// evaluator instance at run time, in registration order.
func WithEvaluatorMiddleware(mw EvaluatorMiddleware) PipelineOption {
	return func(p *Pipeline) { p.middleware = append(p.middleware, mw) }
}

// NewPipeline creates a pipeline with the given options. It returns an
// error if the effective evaluator configuration is invalid.
func NewPipeline(opts ...PipelineOption) (*Pipeline, error) {
	p := &Pipeline{
		cfg:       evaluators.DefaultConfig(),
		validator: validator.New(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Run evaluates one session and returns the merged report and
// diagnostic log.
//
// Data-quality findings never fail a run; the returned error is
// reserved for input-contract violations (missing required session
// fields, unknown game type) and cancellation. On success the report is
// complete, with explicit N/A cells for statistics the session cannot
// support.
func (p *Pipeline) Run(ctx context.Context, session *domain.SessionLog) (*domain.Report, *domain.EvaluationLog, error) {
	started := time.Now()

	if err := ValidateSession(p.validator, session); err != nil {
		return nil, nil, err
	}

	evals, err := evaluators.ForGame(session.GameType, p.cfg)
	if err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()
	logger := p.logger.With(
		zap.String("run_id", runID),
		zap.String("game_session_id", session.GameSessionID),
		zap.String("game_type", string(session.GameType)),
	)

	report := domain.NewReport()
	evalLog := domain.NewEvaluationLog()
	for _, eval := range evals {
		wrapped := eval
		for _, mw := range p.middleware {
			wrapped = mw(wrapped)
		}

		if err := wrapped.Evaluate(ctx, session); err != nil {
			return nil, nil, fmt.Errorf("pipeline: evaluator %s: %w", wrapped.Name(), err)
		}
		for _, sec := range wrapped.Sections() {
			if err := report.Add(sec); err != nil {
				return nil, nil, fmt.Errorf("pipeline: evaluator %s: %w", wrapped.Name(), err)
			}
		}
		if findings := wrapped.Log(); !findings.IsEmpty() {
			logger.Debug("evaluator recorded findings",
				zap.String("evaluator", wrapped.Name()),
				zap.Int("findings", findings.Len()))
			if p.metrics != nil {
				p.metrics.RecordCounter("check_findings_total", float64(findings.Len()),
					map[string]string{
						"game_type": string(session.GameType),
						"evaluator": wrapped.Name(),
					})
			}
			evalLog.Extend(findings)
		}
	}

	elapsed := time.Since(started)
	logger.Info("session evaluated",
		zap.Int("trials", len(session.Trials)),
		zap.Int("sections", report.Len()),
		zap.Int("findings", evalLog.Len()),
		zap.Duration("elapsed", elapsed))
	if p.metrics != nil {
		labels := map[string]string{"game_type": string(session.GameType)}
		p.metrics.RecordLatency("pipeline_run", elapsed, labels)
		p.metrics.RecordCounter("sessions_evaluated_total", 1, labels)
	}
	return report, evalLog, nil
}
