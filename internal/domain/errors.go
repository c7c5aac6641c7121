package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by report construction and session
// validation.
var (
	// ErrSectionCollision indicates two evaluators contributed report
	// sections with the same name.
	ErrSectionCollision = errors.New("section name already exists")

	// ErrInvalidSession indicates the session violates the input
	// contract guaranteed by the capture layer.
	ErrInvalidSession = errors.New("invalid session log")

	// ErrUnknownGameType indicates a session carried a game-type tag
	// outside the supported variant set.
	ErrUnknownGameType = errors.New("unknown game type")
)

// ValidationError describes one or more input-contract violations found
// on a SessionLog. Unlike data-quality findings, these are fatal: the
// capture layer guarantees the fields involved.
type ValidationError struct {
	// GameSessionID identifies the offending session when known.
	GameSessionID string

	// Fields lists the violated field constraints.
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("session %q: invalid field: %s", e.GameSessionID, e.Fields[0])
	}
	return fmt.Sprintf("session %q: invalid fields: %v", e.GameSessionID, e.Fields)
}

// Unwrap lets callers match ValidationError against ErrInvalidSession.
func (e *ValidationError) Unwrap() error { return ErrInvalidSession }
