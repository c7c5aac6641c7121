package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
)

func doublePointsTrial(trial int, trialType domain.TrialType, initial, second domain.Outcome, points, total int) domain.TrialEvent {
	return domain.TrialEvent{
		GameSessionID: "gs", RoundID: 1, TrialID: trial,
		TrialType:          trialType,
		PointsThisTrial:    points,
		PointsRunningTotal: total,
		Double: &domain.DoublePhases{
			InitialOutcome: initial,
			SecondOutcome:  second,
		},
	}
}

func doubleSession(trials ...domain.TrialEvent) *domain.SessionLog {
	return &domain.SessionLog{
		UserID:        "u",
		GameSessionID: "gs",
		GameType:      domain.GameDouble,
		SessionStart:  domain.Float64(0),
		SessionEnd:    domain.Float64(100),
		Trials:        trials,
	}
}

func TestDoublePointsChecker_CleanSession(t *testing.T) {
	session := doubleSession(
		doublePointsTrial(1, domain.TrialGo, domain.OutcomeCorrectGo, domain.OutcomeNone, 20, 20),
		doublePointsTrial(2, domain.TrialGo, domain.OutcomeIncorrectGo, domain.OutcomeNone, -20, 0),
		doublePointsTrial(3, domain.TrialDouble, domain.OutcomeCorrect, domain.OutcomeCorrect, 50, 50),
		// Any unlisted pair scores the trial-type default.
		doublePointsTrial(4, domain.TrialDouble, domain.OutcomeCorrect, domain.OutcomeMiss, -50, 0),
		doublePointsTrial(5, domain.TrialGo, domain.OutcomeCorrectGo, domain.OutcomeIncorrectDoubleGo, -50, -50),
	)

	pc := NewDoublePointsChecker(DefaultConfig())
	require.NoError(t, pc.Evaluate(context.Background(), session))

	assert.Zero(t, pc.Violations())
	assert.True(t, pc.Log().IsEmpty())
}

func TestDoublePointsChecker_Violations(t *testing.T) {
	tests := []struct {
		name       string
		trial      domain.TrialEvent
		violations int
	}{
		{
			name:       "wrong award with the game's own total",
			trial:      doublePointsTrial(1, domain.TrialDouble, domain.OutcomeCorrect, domain.OutcomeCorrect, 20, 50),
			violations: 2, // award mismatch plus the total not matching the recorded award
		},
		{
			name:       "stop trial has no rule in the double game",
			trial:      doublePointsTrial(1, domain.TrialStop, domain.OutcomeCorrect, domain.OutcomeCorrect, 0, 0),
			violations: 1,
		},
		{
			name: "missing phases",
			trial: domain.TrialEvent{
				GameSessionID: "gs", RoundID: 1, TrialID: 1,
				TrialType: domain.TrialGo,
			},
			violations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := NewDoublePointsChecker(DefaultConfig())
			require.NoError(t, pc.Evaluate(context.Background(), doubleSession(tt.trial)))
			assert.Equal(t, tt.violations, pc.Violations())
		})
	}
}
