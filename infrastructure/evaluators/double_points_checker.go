package evaluators

import (
	"context"
	"fmt"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*DoublePointsChecker)(nil)

// DoublePointsChecker verifies the scoring rules of the double-response
// game, where the award depends on the (initial, second) outcome pair,
// plus the same running-total invariant as the standard checker.
type DoublePointsChecker struct {
	cfg  Config
	done bool
	log  *domain.EvaluationLog

	checked    int
	violations int
}

// NewDoublePointsChecker creates a fresh checker for one session.
func NewDoublePointsChecker(cfg Config) *DoublePointsChecker {
	return &DoublePointsChecker{cfg: cfg, log: domain.NewEvaluationLog()}
}

// Name implements ports.Evaluator.
func (pc *DoublePointsChecker) Name() string { return "double_points_checker" }

// Log implements ports.Evaluator.
func (pc *DoublePointsChecker) Log() *domain.EvaluationLog { return pc.log }

// Evaluate verifies awarded points and the running total per trial.
func (pc *DoublePointsChecker) Evaluate(ctx context.Context, session *domain.SessionLog) error {
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

		if ev.Double == nil {
			pc.violations++
			pc.log.CheckFailed(false, ev, "missing double-response phases")
		} else {
			expected, known := pc.cfg.DoublePoints.Expected(
				ev.TrialType, ev.Double.InitialOutcome, ev.Double.SecondOutcome)
			if !known {
				pc.violations++
				pc.log.CheckFailed(false, ev,
					fmt.Sprintf("no points rule for trialType=%s", ev.TrialType))
			} else if !pc.log.CheckFailed(ev.PointsThisTrial == expected, ev,
				fmt.Sprintf("pointsThisTrial=%d expected=%d", ev.PointsThisTrial, expected)) {
				pc.violations++
			}
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
func (pc *DoublePointsChecker) Violations() int { return pc.violations }

// Sections implements ports.Evaluator.
func (pc *DoublePointsChecker) Sections() []domain.Section {
	sec := domain.NewSection("Double Points Check", "Checked Trials", "Violations")
	sec.AddRow(domain.Int(pc.checked), domain.Int(pc.violations))
	return []domain.Section{sec}
}
