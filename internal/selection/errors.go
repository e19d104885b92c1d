package selection

import (
	"errors"
	"fmt"
)

// Rejections reported by Machine operations. The state is unchanged whenever
// one of these is returned, so callers that want the silent behaviour can
// discard them.
var (
	ErrNotFocused      = errors.New("no endpoint is focused")
	ErrDisabled        = errors.New("day is disabled")
	ErrUnparseable     = errors.New("text does not match the date pattern")
	ErrNoValue         = errors.New("focused endpoint has no date")
	ErrOutOfRange      = errors.New("value out of range")
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// GuardError represents an edit refused by a guard
type GuardError struct {
	Guard    string
	Endpoint Endpoint
	Reason   string
}

func (e *GuardError) Error() string {
	if e.Endpoint != NoFocus {
		return fmt.Sprintf("guard %s rejected %s: %s", e.Guard, e.Endpoint, e.Reason)
	}
	return fmt.Sprintf("guard %s rejected edit: %s", e.Guard, e.Reason)
}

// ValidationError wraps multiple guard failures
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors", len(e.Errors))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

// Add adds an error to the validation error
func (e *ValidationError) Add(err error) {
	e.Errors = append(e.Errors, err)
}

// HasErrors returns true if there are validation errors
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}
