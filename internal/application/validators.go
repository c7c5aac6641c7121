package application

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/foodchoice-lab/stopsignal/internal/domain"
)

// ValidateSession checks a session against the capture-layer input
// contract: the identifying metadata and session endpoints must be
// present, and the game-type tag must select a known evaluator set.
//
// A violation here is fatal to the run. Unlike the trial-level integrity
// checks, these fields are guaranteed by the upstream contract, so their
// absence means the caller handed over something that is not a session.
func ValidateSession(v *validator.Validate, session *domain.SessionLog) error {
	if session == nil {
		return &domain.ValidationError{Fields: []string{"session log is nil"}}
	}

	if err := v.Struct(session); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			verr := &domain.ValidationError{GameSessionID: session.GameSessionID}
			for _, fieldErr := range invalid {
				verr.Fields = append(verr.Fields,
					fieldErr.Field()+" failed on "+fieldErr.Tag())
			}
			return verr
		}
		return err
	}

	if !session.GameType.Valid() {
		return &domain.ValidationError{
			GameSessionID: session.GameSessionID,
			Fields:        []string{"GameType is not a supported variant"},
		}
	}
	return nil
}
