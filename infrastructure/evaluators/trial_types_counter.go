package evaluators

import (
	"context"
	"sort"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*TrialTypesCounter)(nil)

// Item classification labels used by the type counters. HEALTHY trials
// are additionally split by whether the item was chosen by the
// randomizer.
const (
	itemHealthy          = "HEALTHY"
	itemHealthyRandom    = "HEALTHY_RANDOM"
	itemHealthyNotRandom = "HEALTHY_NOT_RANDOM"
	itemNonHealthy       = "NON_HEALTHY"
)

var trialTypeOrder = []domain.TrialType{domain.TrialGo, domain.TrialStop, domain.TrialDouble}

var itemTypeOrder = []string{itemHealthy, itemHealthyRandom, itemHealthyNotRandom, itemNonHealthy}

// TrialTypesCounter tallies trial and item types at block and session
// level, with zero-safe percentages, and tracks the set of distinct
// trial IDs per block to expose duplicated or missing trial numbers.
//
// Session-level counts are the sum of block-level counts; percentages
// at each level divide by the sum of counts at that level and are 0
// when the denominator is 0.
type TrialTypesCounter struct {
	cfg      Config
	isRandom func(string) bool
	done     bool
	log      *domain.EvaluationLog

	trialCount      int
	roundTrialIDs   map[int]map[int]struct{}
	blockTrialTypes map[int]map[domain.TrialType]int
	blockItemTypes  map[int]map[string]int
}

// NewTrialTypesCounter creates a fresh counter for one session.
func NewTrialTypesCounter(cfg Config) *TrialTypesCounter {
	return &TrialTypesCounter{
		cfg:             cfg,
		isRandom:        cfg.RandomSelectedMatcher(),
		log:             domain.NewEvaluationLog(),
		roundTrialIDs:   make(map[int]map[int]struct{}),
		blockTrialTypes: make(map[int]map[domain.TrialType]int),
		blockItemTypes:  make(map[int]map[string]int),
	}
}

// Name implements ports.Evaluator.
func (tc *TrialTypesCounter) Name() string { return "trial_types_counter" }

// Log implements ports.Evaluator.
func (tc *TrialTypesCounter) Log() *domain.EvaluationLog { return tc.log }

// Evaluate accumulates block-level counts over the trial stream.
func (tc *TrialTypesCounter) Evaluate(ctx context.Context, session *domain.SessionLog) error {
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
		tc.trialCount++

		ids, ok := tc.roundTrialIDs[ev.RoundID]
		if !ok {
			ids = make(map[int]struct{})
			tc.roundTrialIDs[ev.RoundID] = ids
		}
		ids[ev.TrialID] = struct{}{}

		types, ok := tc.blockTrialTypes[ev.RoundID]
		if !ok {
			types = make(map[domain.TrialType]int)
			tc.blockTrialTypes[ev.RoundID] = types
		}
		types[ev.TrialType]++

		items, ok := tc.blockItemTypes[ev.RoundID]
		if !ok {
			items = make(map[string]int)
			tc.blockItemTypes[ev.RoundID] = items
		}
		switch ev.ItemType {
		case domain.ItemHealthy:
			items[itemHealthy]++
			if tc.isRandom(ev.Selected) {
				items[itemHealthyRandom]++
			} else {
				items[itemHealthyNotRandom]++
			}
		case domain.ItemNonHealthy:
			items[itemNonHealthy]++
		}
	}
	return nil
}

// TrialCount returns the total number of trials observed.
func (tc *TrialTypesCounter) TrialCount() int { return tc.trialCount }

// BlockTrialTypeCounts returns per-block trial-type counts.
func (tc *TrialTypesCounter) BlockTrialTypeCounts() map[int]map[domain.TrialType]int {
	return tc.blockTrialTypes
}

// SessionTrialTypeCounts sums block counts into session-level counts.
func (tc *TrialTypesCounter) SessionTrialTypeCounts() map[domain.TrialType]int {
	totals := make(map[domain.TrialType]int)
	for _, types := range tc.blockTrialTypes {
		for t, n := range types {
			totals[t] += n
		}
	}
	return totals
}

// SessionItemTypeCounts sums block counts into session-level counts.
func (tc *TrialTypesCounter) SessionItemTypeCounts() map[string]int {
	totals := make(map[string]int)
	for _, items := range tc.blockItemTypes {
		for k, n := range items {
			totals[k] += n
		}
	}
	return totals
}

// DistinctTrialIDs returns the number of distinct trial IDs seen in a
// block. Comparing it against the raw event count reveals duplicate or
// missing trial numbers.
func (tc *TrialTypesCounter) DistinctTrialIDs(roundID int) int {
	return len(tc.roundTrialIDs[roundID])
}

// percentage divides count by total, defining the result as 0 when the
// denominator is 0.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func sortedBlocks[V any](m map[int]V) []int {
	blocks := make([]int, 0, len(m))
	for b := range m {
		blocks = append(blocks, b)
	}
	sort.Ints(blocks)
	return blocks
}

// Sections implements ports.Evaluator.
func (tc *TrialTypesCounter) Sections() []domain.Section {
	blockTrials := domain.NewSection("Block Trial Types",
		"Block", "Trial Type", "Count", "Percentage")
	for _, block := range sortedBlocks(tc.blockTrialTypes) {
		types := tc.blockTrialTypes[block]
		total := 0
		for _, n := range types {
			total += n
		}
		for _, t := range trialTypeOrder {
			n, ok := types[t]
			if !ok {
				continue
			}
			blockTrials.AddRow(domain.Int(block), domain.String(string(t)),
				domain.Int(n), domain.Float(percentage(n, total)))
		}
	}

	sessionTrials := domain.NewSection("Session Trial Types",
		"Trial Type", "Count", "Percentage")
	sessionTypes := tc.SessionTrialTypeCounts()
	sessionTotal := 0
	for _, n := range sessionTypes {
		sessionTotal += n
	}
	for _, t := range trialTypeOrder {
		n, ok := sessionTypes[t]
		if !ok {
			continue
		}
		sessionTrials.AddRow(domain.String(string(t)), domain.Int(n),
			domain.Float(percentage(n, sessionTotal)))
	}

	blockItems := domain.NewSection("Block Item Types",
		"Block", "Item Type", "Count", "Percentage")
	for _, block := range sortedBlocks(tc.blockItemTypes) {
		items := tc.blockItemTypes[block]
		total := 0
		for _, n := range items {
			total += n
		}
		for _, k := range itemTypeOrder {
			n, ok := items[k]
			if !ok {
				continue
			}
			blockItems.AddRow(domain.Int(block), domain.String(k),
				domain.Int(n), domain.Float(percentage(n, total)))
		}
	}

	sessionItems := domain.NewSection("Session Item Types",
		"Item Type", "Count", "Percentage")
	itemTotals := tc.SessionItemTypeCounts()
	itemTotal := 0
	for _, n := range itemTotals {
		itemTotal += n
	}
	for _, k := range itemTypeOrder {
		n, ok := itemTotals[k]
		if !ok {
			continue
		}
		sessionItems.AddRow(domain.String(k), domain.Int(n),
			domain.Float(percentage(n, itemTotal)))
	}

	trialIDs := domain.NewSection("Block Trial IDs", "Block", "Distinct Trial IDs")
	for _, block := range sortedBlocks(tc.roundTrialIDs) {
		trialIDs.AddRow(domain.Int(block), domain.Int(len(tc.roundTrialIDs[block])))
	}

	return []domain.Section{blockTrials, sessionTrials, blockItems, sessionItems, trialIDs}
}
