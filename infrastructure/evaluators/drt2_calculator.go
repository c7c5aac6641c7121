package evaluators

import (
	"context"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*DRT2Calculator)(nil)

// DRT2Calculator reports the double-response-task DRT2 metrics for the
// DOUBLE variant. The deployed analysis never derived these beyond zero
// placeholders; the section is kept so DOUBLE reports stay
// shape-compatible with existing downstream consumers.
type DRT2Calculator struct {
	done bool
	log  *domain.EvaluationLog

	idealDRT2  float64
	actualDRT2 float64
}

// NewDRT2Calculator creates a fresh calculator for one session.
func NewDRT2Calculator() *DRT2Calculator {
	return &DRT2Calculator{log: domain.NewEvaluationLog()}
}

// Name implements ports.Evaluator.
func (dc *DRT2Calculator) Name() string { return "drt2_calculator" }

// Log implements ports.Evaluator.
func (dc *DRT2Calculator) Log() *domain.EvaluationLog { return dc.log }

// Evaluate implements ports.Evaluator.
func (dc *DRT2Calculator) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if dc.done {
		return ErrAlreadyEvaluated
	}
	dc.done = true
	return ctx.Err()
}

// Sections implements ports.Evaluator.
func (dc *DRT2Calculator) Sections() []domain.Section {
	sec := domain.NewSection("DRT2", "Metric", "Value")
	sec.AddRow(domain.String("Ideal DRT2"), domain.Float(dc.idealDRT2))
	sec.AddRow(domain.String("Actual DRT2"), domain.Float(dc.actualDRT2))
	return []domain.Section{sec}
}
