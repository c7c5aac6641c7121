package evaluators

import (
	"context"
	"sort"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*DependentVariablesCalculator)(nil)

// Incorrect-STOP bucket labels: itemType crossed with whether the item
// was deliberately chosen or supplied by the randomizer.
const (
	bucketHealthyChosen    = "HEALTHY_CHOSEN"
	bucketHealthyRandom    = "HEALTHY_RANDOM"
	bucketNonHealthyChosen = "NON_HEALTHY_CHOSEN"
	bucketNonHealthyRandom = "NON_HEALTHY_RANDOM"
)

var incorrectStopBucketOrder = []string{
	bucketHealthyChosen,
	bucketHealthyRandom,
	bucketNonHealthyChosen,
	bucketNonHealthyRandom,
}

var correctOutcomeOrder = []domain.Outcome{domain.OutcomeCorrectGo, domain.OutcomeCorrectStop}

// DependentVariablesCalculator derives the study's dependent variables:
// correct-response counts and percentages per block and session, mean
// response times by (outcome, itemType), and response times on failed
// STOP trials bucketed by item type and selection source.
//
// Percentages are taken among correct-outcome trials only; the
// denominator is the sum of CORRECT_GO and CORRECT_STOP counts at that
// scope, never the raw trial count. Means of empty lists are 0.
type DependentVariablesCalculator struct {
	cfg      Config
	isRandom func(string) bool
	done     bool
	log      *domain.EvaluationLog

	correctCounts  map[int]map[domain.Outcome]int
	responseTimes  map[domain.Outcome]map[domain.ItemType][]float64
	incorrectStops map[string][]float64
}

// NewDependentVariablesCalculator creates a fresh calculator for one
// session.
func NewDependentVariablesCalculator(cfg Config) *DependentVariablesCalculator {
	return &DependentVariablesCalculator{
		cfg:            cfg,
		isRandom:       cfg.RandomSelectedMatcher(),
		log:            domain.NewEvaluationLog(),
		correctCounts:  make(map[int]map[domain.Outcome]int),
		responseTimes:  make(map[domain.Outcome]map[domain.ItemType][]float64),
		incorrectStops: make(map[string][]float64),
	}
}

// Name implements ports.Evaluator.
func (dv *DependentVariablesCalculator) Name() string { return "dependent_variables_calculator" }

// Log implements ports.Evaluator.
func (dv *DependentVariablesCalculator) Log() *domain.EvaluationLog { return dv.log }

// Evaluate accumulates the dependent variables over the trial stream.
// Trials without an outcome classification are skipped.
func (dv *DependentVariablesCalculator) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if dv.done {
		return ErrAlreadyEvaluated
	}
	dv.done = true

	for i := range session.Trials {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := &session.Trials[i]
		if ev.Outcome == "" {
			continue
		}
		trs := domain.Numeric(ev.TapResponseStart)

		if ev.Outcome == domain.OutcomeCorrectGo || ev.Outcome == domain.OutcomeCorrectStop {
			counts, ok := dv.correctCounts[ev.RoundID]
			if !ok {
				counts = make(map[domain.Outcome]int)
				dv.correctCounts[ev.RoundID] = counts
			}
			counts[ev.Outcome]++
		}

		byItem, ok := dv.responseTimes[ev.Outcome]
		if !ok {
			byItem = make(map[domain.ItemType][]float64)
			dv.responseTimes[ev.Outcome] = byItem
		}
		byItem[ev.ItemType] = append(byItem[ev.ItemType], trs)

		if ev.TrialType == domain.TrialStop && ev.Outcome != domain.OutcomeCorrectStop {
			bucket := dv.incorrectStopBucket(ev)
			if bucket != "" {
				dv.incorrectStops[bucket] = append(dv.incorrectStops[bucket], trs)
			}
		}
	}
	return nil
}

// incorrectStopBucket classifies a failed STOP trial by item type and
// selection source. Returns "" for item types outside the study domain.
func (dv *DependentVariablesCalculator) incorrectStopBucket(ev *domain.TrialEvent) string {
	random := dv.isRandom(ev.Selected)
	switch ev.ItemType {
	case domain.ItemHealthy:
		if random {
			return bucketHealthyRandom
		}
		return bucketHealthyChosen
	case domain.ItemNonHealthy:
		if random {
			return bucketNonHealthyRandom
		}
		return bucketNonHealthyChosen
	}
	return ""
}

// CorrectCounts returns per-block correct-outcome counts.
func (dv *DependentVariablesCalculator) CorrectCounts() map[int]map[domain.Outcome]int {
	return dv.correctCounts
}

// SessionCorrectCounts sums block-level correct counts.
func (dv *DependentVariablesCalculator) SessionCorrectCounts() map[domain.Outcome]int {
	totals := make(map[domain.Outcome]int)
	for _, counts := range dv.correctCounts {
		for outcome, n := range counts {
			totals[outcome] += n
		}
	}
	return totals
}

// ResponseTimes returns the recorded response-time list for an
// (outcome, itemType) pair.
func (dv *DependentVariablesCalculator) ResponseTimes(outcome domain.Outcome, item domain.ItemType) []float64 {
	return dv.responseTimes[outcome][item]
}

// Sections implements ports.Evaluator.
func (dv *DependentVariablesCalculator) Sections() []domain.Section {
	blockCorrect := domain.NewSection("Correct Responses",
		"Block", "Outcome", "Count", "Percentage")
	for _, block := range sortedBlocks(dv.correctCounts) {
		counts := dv.correctCounts[block]
		total := 0
		for _, n := range counts {
			total += n
		}
		for _, outcome := range correctOutcomeOrder {
			n, ok := counts[outcome]
			if !ok {
				continue
			}
			blockCorrect.AddRow(domain.Int(block), domain.String(string(outcome)),
				domain.Int(n), domain.Float(percentage(n, total)))
		}
	}

	sessionCorrect := domain.NewSection("Session Correct Responses",
		"Outcome", "Count", "Percentage")
	sessionCounts := dv.SessionCorrectCounts()
	sessionTotal := 0
	for _, n := range sessionCounts {
		sessionTotal += n
	}
	for _, outcome := range correctOutcomeOrder {
		n, ok := sessionCounts[outcome]
		if !ok {
			continue
		}
		sessionCorrect.AddRow(domain.String(string(outcome)), domain.Int(n),
			domain.Float(percentage(n, sessionTotal)))
	}

	meanTimes := domain.NewSection("Mean Response Times",
		"Outcome", "Item Type", "Count", "Mean")
	outcomes := make([]string, 0, len(dv.responseTimes))
	for outcome := range dv.responseTimes {
		outcomes = append(outcomes, string(outcome))
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		byItem := dv.responseTimes[domain.Outcome(outcome)]
		for _, item := range []domain.ItemType{domain.ItemHealthy, domain.ItemNonHealthy} {
			times, ok := byItem[item]
			if !ok {
				continue
			}
			meanTimes.AddRow(domain.String(outcome), domain.String(string(item)),
				domain.Int(len(times)), domain.Float(mean(times)))
		}
	}

	incorrectStops := domain.NewSection("Incorrect Stop Responses",
		"Bucket", "Count", "Mean")
	for _, bucket := range incorrectStopBucketOrder {
		times := dv.incorrectStops[bucket]
		incorrectStops.AddRow(domain.String(bucket), domain.Int(len(times)),
			domain.Float(mean(times)))
	}

	return []domain.Section{blockCorrect, sessionCorrect, meanTimes, incorrectStops}
}
