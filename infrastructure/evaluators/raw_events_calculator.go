package evaluators

import (
	"context"
	"sort"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*RawEventsCalculator)(nil)

// RawEventsCalculator tallies the values appearing in the session's
// separate on/off signal stream. The stream is informational; no
// integrity rule applies to it.
type RawEventsCalculator struct {
	done bool
	log  *domain.EvaluationLog

	onCounts  map[string]int
	offCounts map[string]int
}

// NewRawEventsCalculator creates a fresh calculator for one session.
func NewRawEventsCalculator() *RawEventsCalculator {
	return &RawEventsCalculator{
		log:       domain.NewEvaluationLog(),
		onCounts:  make(map[string]int),
		offCounts: make(map[string]int),
	}
}

// Name implements ports.Evaluator.
func (rc *RawEventsCalculator) Name() string { return "raw_events_calculator" }

// Log implements ports.Evaluator.
func (rc *RawEventsCalculator) Log() *domain.EvaluationLog { return rc.log }

// Evaluate tallies on/off signal values.
func (rc *RawEventsCalculator) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if rc.done {
		return ErrAlreadyEvaluated
	}
	rc.done = true

	for _, raw := range session.RawEvents {
		if err := ctx.Err(); err != nil {
			return err
		}
		rc.onCounts[raw.EventOn]++
		rc.offCounts[raw.EventOff]++
	}
	return nil
}

// OnCounts returns the tally of eventOn values.
func (rc *RawEventsCalculator) OnCounts() map[string]int { return rc.onCounts }

// OffCounts returns the tally of eventOff values.
func (rc *RawEventsCalculator) OffCounts() map[string]int { return rc.offCounts }

func addSignalRows(sec *domain.Section, signal string, counts map[string]int) {
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)
	for _, v := range values {
		sec.AddRow(domain.String(signal), domain.String(v), domain.Int(counts[v]))
	}
}

// Sections implements ports.Evaluator.
func (rc *RawEventsCalculator) Sections() []domain.Section {
	sec := domain.NewSection("Raw Events", "Signal", "Value", "Count")
	addSignalRows(&sec, "on", rc.onCounts)
	addSignalRows(&sec, "off", rc.offCounts)
	return []domain.Section{sec}
}
