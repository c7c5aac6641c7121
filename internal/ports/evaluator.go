// Package ports defines the core interfaces that form the contract
// between the application layer and the evaluator implementations.
// These interfaces enable dependency inversion and make the pipeline
// testable.
package ports

import (
	"context"
	"time"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
)

// Evaluator is the fundamental building block of the evaluation
// pipeline. Each evaluator walks one session's trial stream, accumulates
// its own statistics or integrity findings, and contributes a disjoint
// set of report sections.
//
// Evaluators are stateful by contract: one instance holds exactly one
// session's worth of accumulation. The pipeline constructs fresh
// instances per run; instances must never be shared across sessions or
// reused for a second run.
type Evaluator interface {
	// Name returns a unique identifier for this evaluator, used for
	// logging, tracing, and metrics labels.
	Name() string

	// Evaluate walks the session's trial stream and accumulates
	// results. Data-quality findings go to the evaluator's log and do
	// not produce an error; an error is returned only for structural
	// failures that make the evaluator's output meaningless.
	//
	// The context allows cancellation between trials when a caller
	// imposes a deadline; the computation itself never blocks.
	Evaluate(ctx context.Context, session *domain.SessionLog) error

	// Sections returns the report sections this evaluator contributes,
	// in a stable order. It must only be called after Evaluate.
	Sections() []domain.Section

	// Log returns the evaluator's accumulated data-quality findings.
	Log() *domain.EvaluationLog
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations integrate with observability platforms like
// Prometheus or custom monitoring solutions.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)
}
