package evaluators

import (
	"context"
	"math"
	"sort"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*SSRTCalculator)(nil)

// SSRTCalculator estimates the stop-signal reaction time under the
// horse-race model, with two independent estimators over the same
// session:
//
// Mean method: the mean GO response start minus the mean stop-signal
// delay (ideal) or the mean stop-signal onset (actual). Each mean is
// taken over all trials with missing values treated as zero, matching
// the deployed scoring exactly; only the response-start numerator is
// restricted to GO trials with a response.
//
// Integration method: the probability p of responding on a STOP trial
// picks rank n = floor(goTrials × p) - 1 into the ascending list of GO
// response starts (missing entries removed, duplicates retained so ties
// occupy adjacent ranks). The value at that rank estimates where the
// stop process intercepted the go process; the delay and onset means
// are subtracted as above.
//
// Any estimate whose inputs are undefined (no STOP trials, no GO
// trials, rank out of range) is reported as N/A rather than computed
// from a nonsensical index. Unavailability is part of the report, never
// a data-quality finding: a session where every STOP response was
// withheld is a clean session whose integration estimate happens to be
// undefined.
type SSRTCalculator struct {
	done bool
	log  *domain.EvaluationLog

	goTrials         int
	stopTrials       int
	stopWithResponse int
	incorrectStops   int

	meanIdeal         *float64
	meanActual        *float64
	integrationIdeal  *float64
	integrationActual *float64
	responseProb      *float64
	rank              *int
}

// NewSSRTCalculator creates a fresh calculator for one session.
func NewSSRTCalculator() *SSRTCalculator {
	return &SSRTCalculator{log: domain.NewEvaluationLog()}
}

// Name implements ports.Evaluator.
func (sc *SSRTCalculator) Name() string { return "ssrt_calculator" }

// Log implements ports.Evaluator.
func (sc *SSRTCalculator) Log() *domain.EvaluationLog { return sc.log }

// Evaluate computes both SSRT estimates over the trial stream.
func (sc *SSRTCalculator) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if sc.done {
		return ErrAlreadyEvaluated
	}
	sc.done = true

	if err := ctx.Err(); err != nil {
		return err
	}

	trialCount := len(session.Trials)
	var tapStartTotal, stopDelayTotal, stopOnsetTotal float64
	var goResponseStarts []float64

	for i := range session.Trials {
		ev := &session.Trials[i]
		trs := domain.Numeric(ev.TapResponseStart)

		switch ev.TrialType {
		case domain.TrialGo:
			sc.goTrials++
			if trs > 0 {
				tapStartTotal += trs
			}
			if ev.TapResponseStart != nil {
				goResponseStarts = append(goResponseStarts, *ev.TapResponseStart)
			}
		case domain.TrialStop:
			sc.stopTrials++
			if trs != 0 {
				sc.stopWithResponse++
			}
		}
		if ev.Outcome == domain.OutcomeIncorrectStop || ev.Outcome == domain.OutcomeMissStop {
			sc.incorrectStops++
		}

		stopDelayTotal += domain.Numeric(ev.StopSignalDelay)
		stopOnsetTotal += domain.Numeric(ev.StopSignalOnset)
	}

	if trialCount == 0 {
		return nil
	}

	meanTapStart := tapStartTotal / float64(trialCount)
	meanStopDelay := stopDelayTotal / float64(trialCount)
	meanStopOnset := stopOnsetTotal / float64(trialCount)
	sc.meanIdeal = domain.Float64(meanTapStart - meanStopDelay)
	sc.meanActual = domain.Float64(meanTapStart - meanStopOnset)

	if sc.stopTrials == 0 {
		return nil
	}
	p := float64(sc.stopWithResponse) / float64(sc.stopTrials)
	sc.responseProb = domain.Float64(p)

	if sc.goTrials == 0 {
		return nil
	}

	rank := int(math.Floor(float64(sc.goTrials)*p)) - 1
	if rank < 0 || rank >= len(goResponseStarts) {
		return nil
	}
	sc.rank = &rank

	sort.Float64s(goResponseStarts)
	nth := goResponseStarts[rank]
	sc.integrationIdeal = domain.Float64(nth - meanStopDelay)
	sc.integrationActual = domain.Float64(nth - meanStopOnset)
	return nil
}

// MeanSSRT returns the mean-method estimates; nil values are
// unavailable.
func (sc *SSRTCalculator) MeanSSRT() (ideal, actual *float64) {
	return sc.meanIdeal, sc.meanActual
}

// IntegrationSSRT returns the integration-method estimates; nil values
// are unavailable.
func (sc *SSRTCalculator) IntegrationSSRT() (ideal, actual *float64) {
	return sc.integrationIdeal, sc.integrationActual
}

func optionalFloat(v *float64) domain.Cell {
	if v == nil {
		return domain.NA()
	}
	return domain.Float(*v)
}

// Sections implements ports.Evaluator.
func (sc *SSRTCalculator) Sections() []domain.Section {
	ssrt := domain.NewSection("SSRT", "Method", "Ideal", "Actual")
	ssrt.AddRow(domain.String("Mean"),
		optionalFloat(sc.meanIdeal), optionalFloat(sc.meanActual))
	ssrt.AddRow(domain.String("Integration"),
		optionalFloat(sc.integrationIdeal), optionalFloat(sc.integrationActual))

	inputs := domain.NewSection("SSRT Inputs", "Metric", "Value")
	inputs.AddRow(domain.String("GO Trials"), domain.Int(sc.goTrials))
	inputs.AddRow(domain.String("STOP Trials"), domain.Int(sc.stopTrials))
	inputs.AddRow(domain.String("STOP Trials With Response"), domain.Int(sc.stopWithResponse))
	inputs.AddRow(domain.String("Incorrect STOP Trials"), domain.Int(sc.incorrectStops))
	inputs.AddRow(domain.String("Response Probability"), optionalFloat(sc.responseProb))
	rankCell := domain.NA()
	if sc.rank != nil {
		rankCell = domain.Int(*sc.rank)
	}
	inputs.AddRow(domain.String("Integration Rank"), rankCell)

	return []domain.Section{ssrt, inputs}
}
