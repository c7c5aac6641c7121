package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*TracingEvaluator)(nil)

// TracingEvaluator wraps an evaluator with an OpenTelemetry span per
// Evaluate call, following the decorator pattern. Sections and Log pass
// through untouched.
type TracingEvaluator struct {
	next ports.Evaluator
}

// WithTracing decorates an evaluator with tracing. It is suitable for
// use as pipeline evaluator middleware.
func WithTracing(next ports.Evaluator) ports.Evaluator {
	return &TracingEvaluator{next: next}
}

// Name implements ports.Evaluator.
func (te *TracingEvaluator) Name() string { return te.next.Name() }

// Evaluate runs the wrapped evaluator inside a span carrying the
// evaluator name, session identifiers, and finding count.
func (te *TracingEvaluator) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	tracer := otel.Tracer("stopsignal-evaluator")
	ctx, span := tracer.Start(ctx, te.next.Name(),
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if session != nil {
		span.SetAttributes(
			attribute.String("session.game_session_id", session.GameSessionID),
			attribute.String("session.game_type", string(session.GameType)),
			attribute.Int("session.trials", len(session.Trials)),
		)
	}

	err := te.next.Evaluate(ctx, session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("evaluator.findings", te.next.Log().Len()))
	span.SetStatus(codes.Ok, "")
	return nil
}

// Sections implements ports.Evaluator.
func (te *TracingEvaluator) Sections() []domain.Section { return te.next.Sections() }

// Log implements ports.Evaluator.
func (te *TracingEvaluator) Log() *domain.EvaluationLog { return te.next.Log() }
