package evaluators

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
)

// DefaultBoundaryRadius is the hit radius, in screen units, of the food
// item stimulus. A tap strictly closer than this to the item center
// counts as touching the item.
const DefaultBoundaryRadius = 95.0

// Config carries the protocol parameters shared by the evaluator family.
// The zero value is not usable; start from DefaultConfig and override.
//
// Configuration is immutable after the factory hands it to evaluators
// and safe to share across concurrent pipeline runs.
type Config struct {
	// BoundaryRadius is the stimulus hit radius used by the geometric
	// response checks.
	BoundaryRadius float64 `yaml:"boundary_radius" json:"boundary_radius" validate:"gt=0"`

	// RandomSelectedValue is the `selected` tag marking an item chosen
	// by the randomizer rather than a deliberate source. Recorded data
	// carries both `random` and `RANDOM` across app revisions.
	RandomSelectedValue string `yaml:"random_selected_value" json:"random_selected_value" validate:"required"`

	// CaseSensitiveSelection switches the RandomSelectedValue
	// comparison to exact matching. The default folds case, accepting
	// every historical spelling.
	CaseSensitiveSelection bool `yaml:"case_sensitive_selection" json:"case_sensitive_selection"`

	// ExpectedRounds is the number of blocks a complete session
	// contains.
	ExpectedRounds int `yaml:"expected_rounds" json:"expected_rounds" validate:"gt=0"`

	// ExpectedTrialsPerRound lists the accepted per-block trial counts.
	// The protocol shrank from 48 to 24 trials per block mid-study, so
	// both totals are valid by default.
	ExpectedTrialsPerRound []int `yaml:"expected_trials_per_round" json:"expected_trials_per_round" validate:"min=1,dive,gt=0"`

	// Points is the expected per-trial scoring table for the standard
	// stop-signal variants, keyed by trial type then outcome.
	Points PointsTable `yaml:"points" json:"points"`

	// DoublePoints is the expected scoring table for the
	// double-response variant, keyed by outcome pairs.
	DoublePoints DoublePointsTable `yaml:"double_points" json:"double_points"`
}

// PointsTable maps (trial type, outcome) to the points the game awards
// for that result.
type PointsTable map[domain.TrialType]map[domain.Outcome]int

// Expected returns the points the table prescribes for the given trial
// classification, and whether the pair is known.
func (t PointsTable) Expected(trial domain.TrialType, outcome domain.Outcome) (int, bool) {
	outcomes, ok := t[trial]
	if !ok {
		return 0, false
	}
	points, ok := outcomes[outcome]
	return points, ok
}

// DoublePointsTable is the scoring rule for the double-response game.
// Pairs are keyed "initial|second"; a pair absent from the map scores
// the trial-type default.
type DoublePointsTable struct {
	GoPairs       map[string]int `yaml:"go_pairs" json:"go_pairs"`
	GoDefault     int            `yaml:"go_default" json:"go_default"`
	DoublePairs   map[string]int `yaml:"double_pairs" json:"double_pairs"`
	DoubleDefault int            `yaml:"double_default" json:"double_default"`
}

// PairKey builds the lookup key for an initial/second outcome pair.
func PairKey(initial, second domain.Outcome) string {
	return string(initial) + "|" + string(second)
}

// Expected returns the points prescribed for the outcome pair of a
// trial, and whether the trial type is covered by the table.
func (t DoublePointsTable) Expected(trial domain.TrialType, initial, second domain.Outcome) (int, bool) {
	key := PairKey(initial, second)
	switch trial {
	case domain.TrialGo:
		if points, ok := t.GoPairs[key]; ok {
			return points, true
		}
		return t.GoDefault, true
	case domain.TrialDouble:
		if points, ok := t.DoublePairs[key]; ok {
			return points, true
		}
		return t.DoubleDefault, true
	}
	return 0, false
}

// DefaultConfig returns the protocol parameters of the deployed game.
func DefaultConfig() Config {
	return Config{
		BoundaryRadius:         DefaultBoundaryRadius,
		RandomSelectedValue:    "random",
		CaseSensitiveSelection: false,
		ExpectedRounds:         4,
		ExpectedTrialsPerRound: []int{24, 48},
		Points: PointsTable{
			domain.TrialGo: {
				domain.OutcomeCorrectGo:   20,
				domain.OutcomeIncorrectGo: -50,
				domain.OutcomeMissGo:      -20,
			},
			domain.TrialStop: {
				domain.OutcomeCorrectStop:   50,
				domain.OutcomeIncorrectStop: -50,
				domain.OutcomeMissStop:      -50,
			},
		},
		DoublePoints: DoublePointsTable{
			GoPairs: map[string]int{
				PairKey(domain.OutcomeCorrectGo, domain.OutcomeNone):   20,
				PairKey(domain.OutcomeIncorrectGo, domain.OutcomeNone): -20,
			},
			GoDefault: -50,
			DoublePairs: map[string]int{
				PairKey(domain.OutcomeCorrect, domain.OutcomeCorrect): 50,
			},
			DoubleDefault: -50,
		},
	}
}

// Validate checks the configuration against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("evaluator configuration: %w", err)
	}
	return nil
}

// RandomSelectedMatcher returns a predicate reporting whether a trial's
// `selected` tag marks a randomizer-chosen item under the configured
// comparison policy. The default policy uses Unicode case folding so
// that `random` and `RANDOM` both match.
//
// Evaluators that test the tag per trial should build the matcher once
// at construction. The returned predicate folds the configured value
// up front, and since cases.Caser carries internal transform state each
// matcher owns its own Caser and must not be shared across goroutines.
func (c Config) RandomSelectedMatcher() func(selected string) bool {
	if c.CaseSensitiveSelection {
		want := c.RandomSelectedValue
		return func(selected string) bool { return selected == want }
	}
	folder := cases.Fold()
	want := folder.String(c.RandomSelectedValue)
	return func(selected string) bool { return folder.String(selected) == want }
}

// IsRandomSelected is a one-shot form of RandomSelectedMatcher.
func (c Config) IsRandomSelected(selected string) bool {
	return c.RandomSelectedMatcher()(selected)
}
