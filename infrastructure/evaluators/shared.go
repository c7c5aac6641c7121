// Package evaluators provides the session evaluators that implement the
// ports.Evaluator interface for the stop-signal analysis engine.
package evaluators

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by evaluator construction and execution.
var (
	// ErrNilSession is returned when an evaluator receives a nil
	// session log.
	ErrNilSession = errors.New("session log is nil")

	// ErrAlreadyEvaluated is returned when an evaluator instance is
	// asked to evaluate a second session. One instance holds one
	// session's accumulation.
	ErrAlreadyEvaluated = errors.New("evaluator instance already consumed a session")

	// ErrUnknownGameType is returned by the factory for an unsupported
	// game variant tag.
	ErrUnknownGameType = errors.New("unknown game type")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
