package evaluators

import (
	"fmt"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
	"github.com/foodchoice-lab/stopsignal/internal/ports"
)

// ForGame returns the fresh evaluator set for the given game variant.
// Every call constructs new instances; evaluators are single-session by
// contract and must never be shared between pipeline runs.
//
// All stop-signal variants share the common set plus the standard
// points/tap-response/SSRT evaluators; the DOUBLE variant substitutes
// its own points, tap-response and DRT2 evaluators.
func ForGame(gameType domain.GameType, cfg Config) ([]ports.Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !gameType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}

	evaluators := []ports.Evaluator{
		NewDurationsCalculator(),
		NewTrialCountChecker(cfg),
		NewValueLabelChecker(),
		NewTrialTypesCounter(cfg),
		NewDependentVariablesCalculator(cfg),
		NewRawEventsCalculator(),
	}
	if gameType.IsDouble() {
		return append(evaluators,
			NewDoublePointsChecker(cfg),
			NewDoubleTapResponseChecker(cfg),
			NewDRT2Calculator(),
		), nil
	}
	return append(evaluators,
		NewPointsChecker(cfg),
		NewTapResponseChecker(cfg),
		NewSSRTCalculator(),
	), nil
}
