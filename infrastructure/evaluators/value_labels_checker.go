package evaluators

import (
	"context"
	"sort"
	"strings"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

var _ ports.Evaluator = (*ValueLabelChecker)(nil)

// Item IDs are prefix-encoded with the presentation slot the item was
// assigned to.
var itemIDPrefixes = []string{"1_", "2_"}

var labelItemTypes = []domain.ItemType{domain.ItemHealthy, domain.ItemNonHealthy}

// ValueLabelChecker tracks how healthy and non-healthy labels were
// allocated across the two presentation slots, answering whether the
// labels were evenly distributed. It also records the distinct item IDs
// used per `selected` source, per block, and across the session.
//
// Allocation percentages are relative to the item type's own total,
// never to the grand total, and use a zero-safe denominator.
type ValueLabelChecker struct {
	done bool
	log  *domain.EvaluationLog

	labelCounts     map[domain.ItemType]map[string]int
	selectedItemIDs map[string]map[string]struct{}
	blockItemIDs    map[int]map[string]struct{}
}

// NewValueLabelChecker creates a fresh checker for one session.
func NewValueLabelChecker() *ValueLabelChecker {
	counts := make(map[domain.ItemType]map[string]int)
	for _, it := range labelItemTypes {
		counts[it] = map[string]int{}
		for _, prefix := range itemIDPrefixes {
			counts[it][prefix] = 0
		}
	}
	return &ValueLabelChecker{
		log:             domain.NewEvaluationLog(),
		labelCounts:     counts,
		selectedItemIDs: make(map[string]map[string]struct{}),
		blockItemIDs:    make(map[int]map[string]struct{}),
	}
}

// Name implements ports.Evaluator.
func (vc *ValueLabelChecker) Name() string { return "value_labels_checker" }

// Log implements ports.Evaluator.
func (vc *ValueLabelChecker) Log() *domain.EvaluationLog { return vc.log }

// Evaluate accumulates label-allocation counts and item-ID sets.
func (vc *ValueLabelChecker) Evaluate(ctx context.Context, session *domain.SessionLog) error {
	if session == nil {
		return ErrNilSession
	}
	if vc.done {
		return ErrAlreadyEvaluated
	}
	vc.done = true

	for i := range session.Trials {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev := &session.Trials[i]

		if counts, ok := vc.labelCounts[ev.ItemType]; ok {
			for _, prefix := range itemIDPrefixes {
				if strings.HasPrefix(ev.ItemID, prefix) {
					counts[prefix]++
				}
			}
		}

		ids, ok := vc.selectedItemIDs[ev.Selected]
		if !ok {
			ids = make(map[string]struct{})
			vc.selectedItemIDs[ev.Selected] = ids
		}
		ids[ev.ItemID] = struct{}{}

		blockIDs, ok := vc.blockItemIDs[ev.RoundID]
		if !ok {
			blockIDs = make(map[string]struct{})
			vc.blockItemIDs[ev.RoundID] = blockIDs
		}
		blockIDs[ev.ItemID] = struct{}{}
	}
	return nil
}

// LabelCount returns the number of trials presenting an item of the
// given type whose ID carries the given slot prefix.
func (vc *ValueLabelChecker) LabelCount(itemType domain.ItemType, prefix string) int {
	return vc.labelCounts[itemType][prefix]
}

// SessionItemIDs returns the deduplicated item IDs used in the session.
func (vc *ValueLabelChecker) SessionItemIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, blockIDs := range vc.blockItemIDs {
		for id := range blockIDs {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// denominator guards against division by zero: an all-zero allocation
// reports zero percentages instead of failing.
func denominator(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

// Sections implements ports.Evaluator.
func (vc *ValueLabelChecker) Sections() []domain.Section {
	typeTotals := make(map[domain.ItemType]int)
	for _, it := range labelItemTypes {
		for _, prefix := range itemIDPrefixes {
			typeTotals[it] += vc.labelCounts[it][prefix]
		}
	}

	allocation := domain.NewSection("Label Allocation",
		"Item Type", "Prefix", "Count", "Percentage")
	for _, it := range labelItemTypes {
		for _, prefix := range itemIDPrefixes {
			n := vc.labelCounts[it][prefix]
			allocation.AddRow(
				domain.String(string(it)),
				domain.String(prefix),
				domain.Int(n),
				domain.Float(float64(n)/float64(denominator(typeTotals[it]))),
			)
		}
	}

	grandTotal := 0
	for _, it := range labelItemTypes {
		grandTotal += typeTotals[it]
	}
	typeAllocation := domain.NewSection("Item Type Allocation",
		"Item Type", "Count", "Percentage")
	for _, it := range labelItemTypes {
		typeAllocation.AddRow(
			domain.String(string(it)),
			domain.Int(typeTotals[it]),
			domain.Float(float64(typeTotals[it])/float64(denominator(grandTotal))),
		)
	}

	selected := domain.NewSection("Selected Item IDs", "Selected", "Distinct Items")
	selectedKeys := make([]string, 0, len(vc.selectedItemIDs))
	for k := range vc.selectedItemIDs {
		selectedKeys = append(selectedKeys, k)
	}
	sort.Strings(selectedKeys)
	for _, k := range selectedKeys {
		selected.AddRow(domain.String(k), domain.Int(len(vc.selectedItemIDs[k])))
	}

	blocks := domain.NewSection("Block Item IDs", "Block", "Distinct Items")
	for _, block := range sortedBlocks(vc.blockItemIDs) {
		blocks.AddRow(domain.Int(block), domain.Int(len(vc.blockItemIDs[block])))
	}

	sessionIDs := domain.NewSection("Session Item IDs", "Distinct Items")
	sessionIDs.AddRow(domain.Int(len(vc.SessionItemIDs())))

	return []domain.Section{allocation, typeAllocation, selected, blocks, sessionIDs}
}
