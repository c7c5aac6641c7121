package evaluators

import (
	"context"
	"fmt"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*DoubleTapResponseChecker)(nil)

// DoubleTapResponseChecker is the double-response variant of
// TapResponseChecker. Each trial records two response phases, checked
// against two independent outcome tables: the initial tap against the
// first stimulus position and the second tap against the second one.
//
// The legacy INCORR_DOUB_GO spelling is already canonicalized to
// INCORRECT_DOUBLE_GO by outcome parsing, so the table only deals in
// canonical outcomes and the alias gets the same geometric check.
type DoubleTapResponseChecker struct {
	cfg  Config
	done bool
	log  *domain.EvaluationLog

	initialChecks map[domain.TrialType]map[domain.Outcome]tapPredicate
	secondChecks  map[domain.TrialType]map[domain.Outcome]tapPredicate

	checked    int
	violations int
}

// NewDoubleTapResponseChecker creates a fresh checker for one session.
func NewDoubleTapResponseChecker(cfg Config) *DoubleTapResponseChecker {
	dc := &DoubleTapResponseChecker{cfg: cfg, log: domain.NewEvaluationLog()}

	withinInitial := func(ev *domain.TrialEvent) bool {
		return WithinBoundary(ev.Double.InitialTapX, ev.Double.InitialTapY,
			ev.ItemX, ev.ItemY, cfg.BoundaryRadius)
	}
	withinSecond := func(ev *domain.TrialEvent) bool {
		return WithinBoundary(ev.Double.SecondTapX, ev.Double.SecondTapY,
			ev.ItemX, ev.ItemY, cfg.BoundaryRadius)
	}

	dc.initialChecks = map[domain.TrialType]map[domain.Outcome]tapPredicate{
		domain.TrialGo: {
			domain.OutcomeCorrectGo: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && withinInitial(ev)
			},
			domain.OutcomeIncorrectGo: func(trs float64, _ *domain.TrialEvent) bool {
				return trs == 0
			},
			domain.OutcomeMissGo: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && !withinInitial(ev)
			},
		},
		domain.TrialDouble: {
			domain.OutcomeCorrect: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && withinInitial(ev)
			},
			domain.OutcomeIncorrect: func(trs float64, _ *domain.TrialEvent) bool {
				return trs == 0
			},
			domain.OutcomeMiss: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && !withinInitial(ev)
			},
		},
	}
	dc.secondChecks = map[domain.TrialType]map[domain.Outcome]tapPredicate{
		domain.TrialGo: {
			domain.OutcomeNone: func(trs float64, _ *domain.TrialEvent) bool {
				return trs == 0
			},
			domain.OutcomeIncorrectDoubleGo: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && withinSecond(ev)
			},
			domain.OutcomeMissGo: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && !withinSecond(ev)
			},
		},
		domain.TrialDouble: {
			domain.OutcomeCorrect: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && withinSecond(ev)
			},
			domain.OutcomeIncorrect: func(trs float64, _ *domain.TrialEvent) bool {
				return trs == 0
			},
			domain.OutcomeMiss: func(trs float64, ev *domain.TrialEvent) bool {
				return trs > 0 && !withinSecond(ev)
			},
		},
	}
	return dc
}

// Name implements ports.Evaluator.
func (dc *DoubleTapResponseChecker) Name() string { return "double_tap_response_checker" }

// Log implements ports.Evaluator.
func (dc *DoubleTapResponseChecker) Log() *domain.EvaluationLog { return dc.log }

// Evaluate verifies both response phases of every trial.
func (dc *DoubleTapResponseChecker) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if dc.done {
		return ErrAlreadyEvaluated
	}
	dc.done = true

	for i := range session.Trials {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := &session.Trials[i]
		dc.checked++

		if ev.Double == nil {
			dc.violations++
			dc.log.CheckFailed(false, ev, "missing double-response phases")
			continue
		}
		dc.checkPhase(ev, "initial", dc.initialChecks,
			ev.Double.InitialOutcome, domain.Numeric(ev.Double.InitialTapStart))
		dc.checkPhase(ev, "second", dc.secondChecks,
			ev.Double.SecondOutcome, domain.Numeric(ev.Double.SecondTapStart))
	}
	return nil
}

func (dc *DoubleTapResponseChecker) checkPhase(
	ev *domain.TrialEvent,
	phase string,
	table map[domain.TrialType]map[domain.Outcome]tapPredicate,
	outcome domain.Outcome,
	trs float64,
) {
	outcomes, ok := table[ev.TrialType]
	if !ok {
		dc.violations++
		dc.log.CheckFailed(false, ev, fmt.Sprintf("unexpected trialType=%s", ev.TrialType))
		return
	}
	check, ok := outcomes[outcome]
	if !ok {
		dc.violations++
		dc.log.CheckFailed(false, ev,
			fmt.Sprintf("unknown %s tapResponseType=%s", phase, outcome))
		return
	}
	if !dc.log.CheckFailed(check(trs, ev), ev,
		fmt.Sprintf("%s tapResponseType=%s", phase, outcome)) {
		dc.violations++
	}
}

// Violations returns the number of phase checks that failed.
func (dc *DoubleTapResponseChecker) Violations() int { return dc.violations }

// Sections implements ports.Evaluator.
func (dc *DoubleTapResponseChecker) Sections() []domain.Section {
	sec := domain.NewSection("Double Tap Response Check", "Checked Trials", "Violations")
	sec.AddRow(domain.Int(dc.checked), domain.Int(dc.violations))
	return []domain.Section{sec}
}
