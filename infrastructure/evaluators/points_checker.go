package evaluators

import (
	"context"
	"fmt"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*PointsChecker)(nil)

// PointsChecker verifies the scoring rules of the standard stop-signal
// variants: each trial's awarded points must match the fixed table for
// its (trialType, outcome) pair, and the recorded running total must
// equal the sum of awarded points seen so far in trial order.
//
// Both checks are data-quality findings, not hard errors; captured
// sessions are known to contain occasional scoring glitches worth
// reporting rather than aborting on. The running total accumulates the
// recorded per-trial points, so a single bad trial surfaces once rather
// than cascading into a failure on every later trial.
type PointsChecker struct {
	cfg  Config
	done bool
	log  *domain.EvaluationLog

	checked    int
	violations int
}

// NewPointsChecker creates a fresh checker for one session.
func NewPointsChecker(cfg Config) *PointsChecker {
	return &PointsChecker{cfg: cfg, log: domain.NewEvaluationLog()}
}

// Name implements ports.Evaluator.
func (pc *PointsChecker) Name() string { return "points_checker" }

// Log implements ports.Evaluator.
func (pc *PointsChecker) Log() *domain.EvaluationLog { return pc.log }

// Evaluate verifies awarded points and the running total per trial.
func (pc *PointsChecker) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if pc.done {
		return ErrAlreadyEvaluated
	}
	pc.done = true

	runningTotal := 0
	for i := range session.Trials {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := &session.Trials[i]
		pc.checked++

		expected, known := pc.cfg.Points.Expected(ev.TrialType, ev.Outcome)
		if !known {
			pc.violations++
			pc.log.CheckFailed(false, ev,
				fmt.Sprintf("no points rule for tapResponseType=%s", ev.Outcome))
		} else if !pc.log.CheckFailed(ev.PointsThisTrial == expected, ev,
			fmt.Sprintf("pointsThisTrial=%d expected=%d", ev.PointsThisTrial, expected)) {
			pc.violations++
		}

		runningTotal += ev.PointsThisTrial
		if !pc.log.CheckFailed(ev.PointsRunningTotal == runningTotal, ev,
			fmt.Sprintf("pointsRunningTotal=%d expected=%d", ev.PointsRunningTotal, runningTotal)) {
			pc.violations++
		}
	}
	return nil
}

// Violations returns the number of failed scoring checks.
func (pc *PointsChecker) Violations() int { return pc.violations }

// Sections implements ports.Evaluator.
func (pc *PointsChecker) Sections() []domain.Section {
	sec := domain.NewSection("Points Check", "Checked Trials", "Violations")
	sec.AddRow(domain.Int(pc.checked), domain.Int(pc.violations))
	return []domain.Section{sec}
}
