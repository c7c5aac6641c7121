package evaluators

import (
	"context"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*DurationsCalculator)(nil)

// Duration series computed per trial. The names double as report keys,
// so they are stable.
const (
	seriesTrial                  = "trial"
	seriesStopSignal             = "stop_signal"
	seriesStimulus               = "stimulus"
	seriesSignalStopDifference   = "signal_stop_difference"
	seriesStimulusStopDifference = "stimulus_stop_difference"
	seriesInterTrial             = "inter_trial"
)

// durationSeriesOrder fixes report row order.
var durationSeriesOrder = []string{
	seriesTrial,
	seriesStopSignal,
	seriesStimulus,
	seriesSignalStopDifference,
	seriesStimulusStopDifference,
	seriesInterTrial,
}

// DurationsCalculator derives per-trial interval series and the overall
// session duration, then summarizes each series with min/max/mean/stdev.
//
// Interval pairs with a missing endpoint are skipped entirely; missing
// is never coerced to zero here. An empty series contributes no summary
// row. Session duration is sessionEnd - sessionStart; early revisions of
// the capture tooling reported the inverted difference, which is treated
// as a defect and not reproduced.
type DurationsCalculator struct {
	done bool
	log  *domain.EvaluationLog

	sessionDuration float64
	durations       map[string][]float64
}

// NewDurationsCalculator creates a fresh calculator for one session.
func NewDurationsCalculator() *DurationsCalculator {
	return &DurationsCalculator{
		log:       domain.NewEvaluationLog(),
		durations: make(map[string][]float64),
	}
}

// Name implements ports.Evaluator.
func (dc *DurationsCalculator) Name() string { return "durations_calculator" }

// Log implements ports.Evaluator.
func (dc *DurationsCalculator) Log() *domain.EvaluationLog { return dc.log }

// Evaluate computes the session duration and the six per-trial interval
// series.
func (dc *DurationsCalculator) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if dc.done {
		return ErrAlreadyEvaluated
	}
	dc.done = true

	// Session endpoints are part of the input contract, so both are
	// present by the time a session reaches an evaluator.
	dc.sessionDuration = domain.Numeric(session.SessionEnd) - domain.Numeric(session.SessionStart)

	var previous *domain.TrialEvent
	for i := range session.Trials {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := &session.Trials[i]

		dc.recordPair(seriesTrial, ev.TrialEnd, ev.TrialStart)
		dc.recordPair(seriesStopSignal, ev.StopSignalOffset, ev.StopSignalOnset)
		dc.recordPair(seriesStimulus, ev.StimulusOffset, ev.StimulusOnset)
		dc.recordPair(seriesSignalStopDifference, ev.StopSignalOnset, ev.StopSignalDelay)
		dc.recordPair(seriesStimulusStopDifference, ev.StimulusOffset, ev.StopSignalOffset)
		if previous != nil {
			dc.recordPair(seriesInterTrial, ev.TrialStart, previous.TrialStart)
		}
		previous = ev
	}
	return nil
}

// recordPair appends end-start to the series when both endpoints are
// present.
func (dc *DurationsCalculator) recordPair(series string, end, start *float64) {
	if end == nil || start == nil {
		return
	}
	dc.durations[series] = append(dc.durations[series], *end-*start)
}

// SessionDuration returns the computed whole-session duration.
func (dc *DurationsCalculator) SessionDuration() float64 { return dc.sessionDuration }

// Series returns the raw values recorded for a series.
func (dc *DurationsCalculator) Series(name string) []float64 { return dc.durations[name] }

// Sections implements ports.Evaluator.
func (dc *DurationsCalculator) Sections() []domain.Section {
	sessionSec := domain.NewSection("Session Duration", "Metric", "Value")
	sessionSec.AddRow(domain.String("Session Duration"), domain.Float(dc.sessionDuration))

	durationsSec := domain.NewSection("Durations",
		"Series", "Count", "Min", "Max", "Mean", "Stdev")
	for _, series := range durationSeriesOrder {
		stats, ok := summarize(dc.durations[series])
		if !ok {
			continue
		}
		stdev := domain.NA()
		if stats.hasStdev {
			stdev = domain.Float(stats.stdev)
		}
		durationsSec.AddRow(
			domain.String(series),
			domain.Int(stats.count),
			domain.Float(stats.min),
			domain.Float(stats.max),
			domain.Float(stats.mean),
			stdev,
		)
	}

	return []domain.Section{sessionSec, durationsSec}
}
