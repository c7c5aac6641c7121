package evaluators

import (
	"context"
	"fmt"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*TrialCountChecker)(nil)

// TrialCountChecker verifies that the session carries a complete
// protocol's worth of trials: rounds × trials-per-round for one of the
// configured per-round counts. The protocol shrank mid-study, so more
// than one total can be acceptable. A mismatch is a logged finding.
type TrialCountChecker struct {
	cfg  Config
	done bool
	log  *domain.EvaluationLog

	observed int
	matched  bool
}

// NewTrialCountChecker creates a fresh checker for one session.
func NewTrialCountChecker(cfg Config) *TrialCountChecker {
	return &TrialCountChecker{cfg: cfg, log: domain.NewEvaluationLog()}
}

// Name implements ports.Evaluator.
func (cc *TrialCountChecker) Name() string { return "trial_count_checker" }

// Log implements ports.Evaluator.
func (cc *TrialCountChecker) Log() *domain.EvaluationLog { return cc.log }

// Evaluate checks the total trial count against the expectation set.
func (cc *TrialCountChecker) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if cc.done {
		return ErrAlreadyEvaluated
	}
	cc.done = true

	if err := ctx.Err(); err != nil {
		return err
	}

	cc.observed = len(session.Trials)
	expected := make([]int, 0, len(cc.cfg.ExpectedTrialsPerRound))
	for _, perRound := range cc.cfg.ExpectedTrialsPerRound {
		total := cc.cfg.ExpectedRounds * perRound
		expected = append(expected, total)
		if cc.observed == total {
			cc.matched = true
		}
	}
	if !cc.matched {
		cc.log.Append(fmt.Sprintf(
			"trial count check failed: gameSessionID=%s observed=%d expected one of %v",
			session.GameSessionID, cc.observed, expected))
	}
	return nil
}

// Matched reports whether the observed count hit one of the expected
// totals.
func (cc *TrialCountChecker) Matched() bool { return cc.matched }

// Sections implements ports.Evaluator.
func (cc *TrialCountChecker) Sections() []domain.Section {
	sec := domain.NewSection("Trial Count", "Observed", "Complete")
	complete := domain.String("no")
	if cc.matched {
		complete = domain.String("yes")
	}
	sec.AddRow(domain.Int(cc.observed), complete)
	return []domain.Section{sec}
}
