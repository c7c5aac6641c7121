package evaluators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
)

func ssrtGoTrial(trial int, trs *float64) domain.TrialEvent {
	return domain.TrialEvent{
		GameSessionID: "gs", RoundID: 1, TrialID: trial,
		TrialType:        domain.TrialGo,
		Outcome:          domain.OutcomeCorrectGo,
		TapResponseStart: trs,
	}
}

func ssrtStopTrial(trial int, trs *float64, outcome domain.Outcome) domain.TrialEvent {
	return domain.TrialEvent{
		GameSessionID: "gs", RoundID: 1, TrialID: trial,
		TrialType:        domain.TrialStop,
		Outcome:          outcome,
		TapResponseStart: trs,
		StopSignalDelay:  domain.Float64(150),
		StopSignalOnset:  domain.Float64(300),
	}
}

func ssrtSession(trials ...domain.TrialEvent) *domain.SessionLog {
	return &domain.SessionLog{
		UserID:        "u",
		GameSessionID: "gs",
		GameType:      domain.GameStop,
		SessionStart:  domain.Float64(0),
		SessionEnd:    domain.Float64(10000),
		Trials:        trials,
	}
}

func TestSSRTCalculator_BothMethods(t *testing.T) {
	// Four GO trials with responses at 100..400 and two STOP trials,
	// one responded: p = 0.5, so the integration method picks
	// rank floor(4 * 0.5) - 1 = 1, the second-fastest GO response.
	session := ssrtSession(
		ssrtGoTrial(1, domain.Float64(300)),
		ssrtGoTrial(2, domain.Float64(100)),
		ssrtGoTrial(3, domain.Float64(400)),
		ssrtGoTrial(4, domain.Float64(200)),
		ssrtStopTrial(5, domain.Float64(350), domain.OutcomeIncorrectStop),
		ssrtStopTrial(6, nil, domain.OutcomeCorrectStop),
	)

	sc := NewSSRTCalculator()
	require.NoError(t, sc.Evaluate(context.Background(), session))

	// Means are taken over all six trials: tap starts 1000/6, delays
	// 300/6, onsets 600/6.
	meanIdeal, meanActual := sc.MeanSSRT()
	require.NotNil(t, meanIdeal)
	require.NotNil(t, meanActual)
	assert.InDelta(t, 1000.0/6-300.0/6, *meanIdeal, 1e-9)
	assert.InDelta(t, 1000.0/6-600.0/6, *meanActual, 1e-9)

	intIdeal, intActual := sc.IntegrationSSRT()
	require.NotNil(t, intIdeal)
	require.NotNil(t, intActual)
	assert.InDelta(t, 200-300.0/6, *intIdeal, 1e-9)
	assert.InDelta(t, 200-600.0/6, *intActual, 1e-9)

	assert.True(t, sc.Log().IsEmpty())
}

func TestSSRTCalculator_NoTrials(t *testing.T) {
	sc := NewSSRTCalculator()
	require.NoError(t, sc.Evaluate(context.Background(), ssrtSession()))

	meanIdeal, meanActual := sc.MeanSSRT()
	assert.Nil(t, meanIdeal)
	assert.Nil(t, meanActual)
	intIdeal, intActual := sc.IntegrationSSRT()
	assert.Nil(t, intIdeal)
	assert.Nil(t, intActual)
	assert.True(t, sc.Log().IsEmpty(), "unavailability is not a finding")

	// Every estimate renders as the N/A sentinel, not a zero.
	ssrt, ok := findSection(sc.Sections(), "SSRT")
	require.True(t, ok)
	for _, row := range ssrt.Rows {
		assert.True(t, row[1].IsNA())
		assert.True(t, row[2].IsNA())
	}
}

func TestSSRTCalculator_NoStopTrials(t *testing.T) {
	session := ssrtSession(
		ssrtGoTrial(1, domain.Float64(100)),
		ssrtGoTrial(2, domain.Float64(200)),
	)

	sc := NewSSRTCalculator()
	require.NoError(t, sc.Evaluate(context.Background(), session))

	meanIdeal, _ := sc.MeanSSRT()
	assert.NotNil(t, meanIdeal, "the mean method survives without STOP trials")

	intIdeal, intActual := sc.IntegrationSSRT()
	assert.Nil(t, intIdeal)
	assert.Nil(t, intActual)
	assert.True(t, sc.Log().IsEmpty())
}

func TestSSRTCalculator_RankOutOfRange(t *testing.T) {
	// Two GO trials but only one recorded response start: p = 1 picks
	// rank 1, which is past the end of the one-element response list.
	session := ssrtSession(
		ssrtGoTrial(1, domain.Float64(100)),
		ssrtGoTrial(2, nil),
		ssrtStopTrial(3, domain.Float64(350), domain.OutcomeIncorrectStop),
	)

	sc := NewSSRTCalculator()
	require.NoError(t, sc.Evaluate(context.Background(), session))

	intIdeal, _ := sc.IntegrationSSRT()
	assert.Nil(t, intIdeal)
	assert.True(t, sc.Log().IsEmpty())

	// The rank context still surfaces in the inputs section.
	inputs, ok := findSection(sc.Sections(), "SSRT Inputs")
	require.True(t, ok)
	for _, row := range inputs.Rows {
		if row[0].Render() == "Integration Rank" {
			assert.True(t, row[1].IsNA())
		}
	}
}

func TestSSRTCalculator_AllStopsWithheld(t *testing.T) {
	// p = 0 picks rank -1, which is undefined rather than clamped.
	session := ssrtSession(
		ssrtGoTrial(1, domain.Float64(100)),
		ssrtStopTrial(2, nil, domain.OutcomeCorrectStop),
	)

	sc := NewSSRTCalculator()
	require.NoError(t, sc.Evaluate(context.Background(), session))

	intIdeal, _ := sc.IntegrationSSRT()
	assert.Nil(t, intIdeal)
	assert.True(t, sc.Log().IsEmpty())
}

func TestSSRTCalculator_AllCorrectSessionHasNoFindings(t *testing.T) {
	// A session where every STOP response was withheld has p = 0 and
	// an undefined integration estimate; that is a property of the
	// data, not a data-quality violation.
	sc := NewSSRTCalculator()
	require.NoError(t, sc.Evaluate(context.Background(), correctSession(4, 24)))

	assert.True(t, sc.Log().IsEmpty())

	meanIdeal, _ := sc.MeanSSRT()
	assert.NotNil(t, meanIdeal)
	intIdeal, _ := sc.IntegrationSSRT()
	assert.Nil(t, intIdeal)
}

func TestSSRTCalculator_InputsSection(t *testing.T) {
	session := ssrtSession(
		ssrtGoTrial(1, domain.Float64(100)),
		ssrtGoTrial(2, domain.Float64(200)),
		ssrtStopTrial(3, domain.Float64(350), domain.OutcomeIncorrectStop),
		ssrtStopTrial(4, domain.Float64(500), domain.OutcomeMissStop),
	)

	sc := NewSSRTCalculator()
	require.NoError(t, sc.Evaluate(context.Background(), session))

	inputs, ok := findSection(sc.Sections(), "SSRT Inputs")
	require.True(t, ok)
	byMetric := make(map[string]domain.Cell)
	for _, row := range inputs.Rows {
		byMetric[row[0].Render()] = row[1]
	}

	assert.Equal(t, 2, byMetric["GO Trials"].IntValue())
	assert.Equal(t, 2, byMetric["STOP Trials"].IntValue())
	assert.Equal(t, 2, byMetric["STOP Trials With Response"].IntValue())
	assert.Equal(t, 2, byMetric["Incorrect STOP Trials"].IntValue())
	assert.InDelta(t, 1.0, byMetric["Response Probability"].FloatValue(), 1e-9)
	assert.Equal(t, 1, byMetric["Integration Rank"].IntValue())
}
