package evaluators

import (
	"github.com/foodchoice-lab/stopsignal/internal/domain"
)

// Test fixtures model the deployed game's geometry: items are centered
// at (300, 500) and correct taps land on the center.
const (
	fixtureItemX = 300.0
	fixtureItemY = 500.0
)

// correctGoTrial builds a GO trial whose recorded outcome, geometry,
// points and running total are all internally consistent.
func correctGoTrial(round, trial int, start float64, runningTotal int) domain.TrialEvent {
	return domain.TrialEvent{
		GameSessionID:      "gs-test",
		RoundID:            round,
		TrialID:            trial,
		TrialType:          domain.TrialGo,
		Outcome:            domain.OutcomeCorrectGo,
		TrialStart:         domain.Float64(start),
		TrialEnd:           domain.Float64(start + 900),
		StimulusOnset:      domain.Float64(start + 50),
		StimulusOffset:     domain.Float64(start + 650),
		TapResponseStart:   domain.Float64(start + 400),
		TapX:               fixtureItemX,
		TapY:               fixtureItemY,
		ItemX:              fixtureItemX,
		ItemY:              fixtureItemY,
		ItemType:           domain.ItemHealthy,
		Selected:           "user",
		ItemID:             "1_apple",
		PointsThisTrial:    20,
		PointsRunningTotal: runningTotal + 20,
	}
}

// correctStopTrial builds a STOP trial with a successfully withheld
// response and consistent scoring.
func correctStopTrial(round, trial int, start float64, runningTotal int) domain.TrialEvent {
	return domain.TrialEvent{
		GameSessionID:      "gs-test",
		RoundID:            round,
		TrialID:            trial,
		TrialType:          domain.TrialStop,
		Outcome:            domain.OutcomeCorrectStop,
		TrialStart:         domain.Float64(start),
		TrialEnd:           domain.Float64(start + 900),
		StimulusOnset:      domain.Float64(start + 50),
		StimulusOffset:     domain.Float64(start + 650),
		StopSignalDelay:    domain.Float64(150),
		StopSignalOnset:    domain.Float64(start + 200),
		StopSignalOffset:   domain.Float64(start + 450),
		ItemX:              fixtureItemX,
		ItemY:              fixtureItemY,
		ItemType:           domain.ItemNonHealthy,
		Selected:           "user",
		ItemID:             "2_burger",
		PointsThisTrial:    50,
		PointsRunningTotal: runningTotal + 50,
	}
}

// correctSession builds a complete all-correct session: `rounds` blocks
// of `trialsPerRound` trials each, three GO trials for every STOP trial,
// with monotone timestamps and a consistent running point total.
func correctSession(rounds, trialsPerRound int) *domain.SessionLog {
	session := &domain.SessionLog{
		UserID:        "user-test",
		GameSessionID: "gs-test",
		GameType:      domain.GameStop,
		SessionStart:  domain.Float64(0),
	}

	start := 1000.0
	runningTotal := 0
	for round := 1; round <= rounds; round++ {
		for trial := 1; trial <= trialsPerRound; trial++ {
			var ev domain.TrialEvent
			if trial%4 == 0 {
				ev = correctStopTrial(round, trial, start, runningTotal)
			} else {
				ev = correctGoTrial(round, trial, start, runningTotal)
			}
			runningTotal = ev.PointsRunningTotal
			session.Trials = append(session.Trials, ev)
			start += 1000
		}
	}
	session.SessionEnd = domain.Float64(start)
	return session
}
