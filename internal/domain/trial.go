// Package domain contains pure, dependency-free domain models and types
// for the stop-signal analysis engine.
package domain

import "strings"

// TrialType identifies the behavioral condition of a single trial.
type TrialType string

// Trial conditions across the supported game variants. GO and STOP cover
// the stop-signal family; DOUBLE only occurs in the double-response game.
const (
	TrialGo     TrialType = "GO"
	TrialStop   TrialType = "STOP"
	TrialDouble TrialType = "DOUBLE"
)

// Outcome is the recorded classification of a subject's response to a
// trial. The domain is closed: values outside this set indicate corrupt
// capture data and are surfaced by the tap-response checkers.
type Outcome string

// Outcomes for GO and STOP trials.
const (
	OutcomeCorrectGo     Outcome = "CORRECT_GO"
	OutcomeIncorrectGo   Outcome = "INCORRECT_GO"
	OutcomeMissGo        Outcome = "MISS_GO"
	OutcomeCorrectStop   Outcome = "CORRECT_STOP"
	OutcomeIncorrectStop Outcome = "INCORRECT_STOP"
	OutcomeMissStop      Outcome = "MISS_STOP"
)

// Outcomes specific to the double-response game, where each trial has an
// initial and a second response phase. OutcomeNone marks a phase where no
// response was expected.
const (
	OutcomeCorrect           Outcome = "CORRECT"
	OutcomeIncorrect         Outcome = "INCORRECT"
	OutcomeMiss              Outcome = "MISS"
	OutcomeNone              Outcome = "N/A"
	OutcomeIncorrectDoubleGo Outcome = "INCORRECT_DOUBLE_GO"
)

// outcomeAliases maps legacy capture-layer spellings to their canonical
// outcome. Normalization happens exactly once, in ParseOutcome, so
// evaluators never need to handle alias spellings.
var outcomeAliases = map[string]Outcome{
	"INCORR_DOUB_GO": OutcomeIncorrectDoubleGo,
}

// ParseOutcome canonicalizes a raw outcome string from the capture layer,
// trimming whitespace and resolving legacy aliases. An unknown value is
// returned as-is (typed); the checkers report it as a protocol violation
// rather than rejecting the session.
func ParseOutcome(raw string) Outcome {
	s := strings.TrimSpace(raw)
	if canonical, ok := outcomeAliases[s]; ok {
		return canonical
	}
	return Outcome(s)
}

// ItemType labels the food stimulus presented in a trial.
type ItemType string

// Stimulus classifications.
const (
	ItemHealthy    ItemType = "HEALTHY"
	ItemNonHealthy ItemType = "NON_HEALTHY"
)

// GameType selects which evaluator set the pipeline runs for a session.
type GameType string

// Supported game variants. All variants except GameDouble share the
// common stop-signal evaluator set.
const (
	GameStop        GameType = "STOP"
	GameRestraint   GameType = "RESTRAINT"
	GameNAStop      GameType = "NASTOP"
	GameNARestraint GameType = "NARESTRAINT"
	GameGStop       GameType = "GSTOP"
	GameGRestraint  GameType = "GRESTRAINT"
	GameDouble      GameType = "DOUBLE"
)

// Valid reports whether gt is one of the supported game variants.
func (gt GameType) Valid() bool {
	switch gt {
	case GameStop, GameRestraint, GameNAStop, GameNARestraint,
		GameGStop, GameGRestraint, GameDouble:
		return true
	}
	return false
}

// IsDouble reports whether the variant uses the double-response
// evaluator set instead of the standard stop-signal one.
func (gt GameType) IsDouble() bool { return gt == GameDouble }

// Numeric applies the numericify policy to an optional timestamp:
// a missing value is treated as zero. Checkers use this before comparing
// response-start times; interval arithmetic does NOT use it, because a
// missing endpoint must skip the pair rather than produce a bogus delta.
func Numeric(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float64 returns a pointer to v, for building optional fields.
func Float64(v float64) *float64 { return &v }

// DoublePhases carries the response fields specific to the
// double-response game, where a trial records an initial and a second
// tap independently.
type DoublePhases struct {
	InitialOutcome  Outcome  `json:"initialTapResponseType"`
	SecondOutcome   Outcome  `json:"secondTapResponseType"`
	InitialTapStart *float64 `json:"initialTapResponseStart"`
	SecondTapStart  *float64 `json:"secondTapResponseStart"`
	InitialTapX     float64  `json:"initialTapResponsePositionX"`
	InitialTapY     float64  `json:"initialTapResponsePositionY"`
	SecondTapX      float64  `json:"secondTapResponsePositionX"`
	SecondTapY      float64  `json:"secondTapResponsePositionY"`
}

// TrialEvent is one trial of a recorded session. It is immutable once
// constructed by the capture layer; evaluators only read it.
//
// All timestamps share one unit and epoch (as captured). Optional
// timestamps are nil when the capture layer recorded no value; a
// recorded zero response start also means "no response".
type TrialEvent struct {
	GameSessionID string    `json:"gameSessionID"`
	RoundID       int       `json:"roundID"`
	TrialID       int       `json:"trialID"`
	TrialType     TrialType `json:"trialType"`

	// Outcome is the capture layer's classification of the response
	// (tapResponseType). Empty for DOUBLE-variant trials, which use
	// the per-phase outcomes in Double instead.
	Outcome Outcome `json:"tapResponseType"`

	TrialStart       *float64 `json:"trialStart"`
	TrialEnd         *float64 `json:"trialEnd"`
	StimulusOnset    *float64 `json:"stimulusOnset"`
	StimulusOffset   *float64 `json:"stimulusOffset"`
	StopSignalOnset  *float64 `json:"stopSignalOnset"`
	StopSignalOffset *float64 `json:"stopSignalOffset"`
	StopSignalDelay  *float64 `json:"stopSignalDelay"`
	TapResponseStart *float64 `json:"tapResponseStart"`

	TapX  float64 `json:"tapResponsePositionX"`
	TapY  float64 `json:"tapResponsePositionY"`
	ItemX float64 `json:"itemPositionX"`
	ItemY float64 `json:"itemPositionY"`

	ItemType ItemType `json:"itemType"`
	Selected string   `json:"selected"`
	ItemID   string   `json:"itemID"`

	PointsThisTrial    int `json:"pointsThisTrial"`
	PointsRunningTotal int `json:"pointsRunningTotal"`

	// Double is set only for double-response game sessions.
	Double *DoublePhases `json:"double,omitempty"`
}

// Ref returns a compact reference to this trial for diagnostics.
func (t *TrialEvent) Ref() *TrialRef {
	return &TrialRef{
		GameSessionID: t.GameSessionID,
		RoundID:       t.RoundID,
		TrialID:       t.TrialID,
		TrialType:     t.TrialType,
	}
}

// RawEvent is one entry of the separate on/off signal stream captured
// alongside the trials. The engine only tallies these.
type RawEvent struct {
	EventOn  string `json:"eventOn"`
	EventOff string `json:"eventOff"`
}

// SessionLog is the normalized input supplied by the capture layer:
// one session's ordered trial stream plus session-level metadata.
// Trial order is temporal order; the inter-trial-interval and
// running-total checks depend on it.
//
// The validate tags express the input contract: a session missing any
// of the required fields is a fatal contract violation, not a
// data-quality finding.
type SessionLog struct {
	UserID        string   `json:"userId" validate:"required"`
	GameSessionID string   `json:"gameSessionId" validate:"required"`
	GameType      GameType `json:"gameType" validate:"required"`
	SessionStart  *float64 `json:"sessionStart" validate:"required"`
	SessionEnd    *float64 `json:"sessionEnd" validate:"required"`

	Trials    []TrialEvent `json:"trials"`
	RawEvents []RawEvent   `json:"rawEvents"`
}
