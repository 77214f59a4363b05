package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nibzard/covenant-go/internal/covenant"
)

// Exit codes for CLI commands.
const (
	ExitSuccess = 0 // Successful execution
	ExitFailure = 1 // Runtime failure (storage, I/O)
	ExitUsage   = 2 // Bad arguments, flags, configuration, or rejected input
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitUsage)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return WrapExitError(ExitUsage, "invalid arguments", err)
		}
		return nil
	}
}

// domainError maps controller errors to exit codes. Rejected input is a
// usage error; anything else, such as a failed save, is a failure.
func domainError(message string, err error) error {
	var ve *covenant.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, covenant.ErrNotConfigured),
		errors.Is(err, covenant.ErrAlreadyConfigured),
		errors.Is(err, covenant.ErrUnknownTask),
		errors.Is(err, covenant.ErrOutOfRange),
		errors.Is(err, covenant.ErrTaskDisabled):
		return WrapExitError(ExitUsage, message, err)
	}
	return WrapExitError(ExitFailure, message, err)
}
