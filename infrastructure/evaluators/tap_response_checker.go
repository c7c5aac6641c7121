package evaluators

import (
	"context"
	"fmt"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*TapResponseChecker)(nil)

// tapPredicate verifies a recorded outcome against the raw response
// data of a trial. trs is the tap response start after the numericify
// policy (missing value treated as 0, meaning no response).
type tapPredicate func(trs float64, ev *domain.TrialEvent) bool

// TapResponseChecker verifies each trial's recorded outcome against the
// expected relation between response presence and the stimulus hit
// geometry: a CORRECT_GO response exists and lands inside the item
// boundary, a CORRECT_STOP has no response, and so on.
//
// Mismatches and unknown (trialType, outcome) pairs are data-quality
// findings: they are logged with the trial identifiers and evaluation
// continues with the next trial.
type TapResponseChecker struct {
	cfg    Config
	done   bool
	log    *domain.EvaluationLog
	checks map[domain.TrialType]map[domain.Outcome]tapPredicate

	checked    int
	violations int
}

// NewTapResponseChecker creates a fresh checker for one session.
func NewTapResponseChecker(cfg Config) *TapResponseChecker {
	tc := &TapResponseChecker{cfg: cfg, log: domain.NewEvaluationLog()}

	within := func(ev *domain.TrialEvent) bool {
		return WithinBoundary(ev.TapX, ev.TapY, ev.ItemX, ev.ItemY, cfg.BoundaryRadius)
	}
	tc.checks = map[domain.TrialType]map[domain.Outcome]tapPredicate{
		domain.TrialGo: {
			domain.OutcomeCorrectGo: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && within(ev)
			},
			domain.OutcomeIncorrectGo: func(trs float64, _ *domain.TrialEvent) bool {
				return trs == 0
			},
			domain.OutcomeMissGo: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && !within(ev)
			},
		},
		domain.TrialStop: {
			domain.OutcomeCorrectStop: func(trs float64, _ *domain.TrialEvent) bool {
				return trs == 0
			},
			domain.OutcomeIncorrectStop: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && within(ev)
			},
			domain.OutcomeMissStop: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && !within(ev)
			},
		},
	}
	return tc
}

// Name implements ports.Evaluator.
func (tc *TapResponseChecker) Name() string { return "tap_response_checker" }

// Log implements ports.Evaluator.
func (tc *TapResponseChecker) Log() *domain.EvaluationLog { return tc.log }

// Evaluate verifies every trial's outcome classification.
func (tc *TapResponseChecker) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if tc.done {
		return ErrAlreadyEvaluated
	}
	tc.done = true

	for i := range session.Trials {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := &session.Trials[i]
		tc.checked++

		outcomes, ok := tc.checks[ev.TrialType]
		if !ok {
			tc.violations++
			tc.log.CheckFailed(false, ev, fmt.Sprintf("unexpected trialType=%s", ev.TrialType))
			continue
		}
		check, ok := outcomes[ev.Outcome]
		if !ok {
			tc.violations++
			tc.log.CheckFailed(false, ev, fmt.Sprintf("unknown tapResponseType=%s", ev.Outcome))
			continue
		}

		trs := domain.Numeric(ev.TapResponseStart)
		if !tc.log.CheckFailed(check(trs, ev), ev, fmt.Sprintf("tapResponseType=%s", ev.Outcome)) {
			tc.violations++
		}
	}
	return nil
}

// Violations returns the number of trials whose outcome did not match
// the recorded response data.
func (tc *TapResponseChecker) Violations() int { return tc.violations }

// Sections implements ports.Evaluator.
func (tc *TapResponseChecker) Sections() []domain.Section {
	sec := domain.NewSection("Tap Response Check", "Checked Trials", "Violations")
	sec.AddRow(domain.Int(tc.checked), domain.Int(tc.violations))
	return []domain.Section{sec}
}
