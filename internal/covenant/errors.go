package covenant

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured is returned when an operation needs a start date.
	ErrNotConfigured = errors.New("covenant start date is not set")
	// ErrAlreadyConfigured is returned when setting a date over an active
	// period. Reset first.
	ErrAlreadyConfigured = errors.New("covenant start date is already set")
	ErrUnknownTask       = errors.New("unknown task")
	ErrOutOfRange        = errors.New("date is outside the tracked period")
	ErrTaskDisabled      = errors.New("task is not available on this day")
	ErrEmptyDate         = errors.New("please select a valid date")
	// ErrCorruptState marks persisted state that exists but cannot be decoded.
	ErrCorruptState = errors.New("persisted state is malformed")
)

// ValidationError is a user-input error. No state changes when one is returned.
type ValidationError struct {
	Field string
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Input, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
