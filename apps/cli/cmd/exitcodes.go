package cmd

import "errors"

// Exit codes for inttest CLI
const (
	// ExitSuccess indicates all fixtures are valid
	ExitSuccess = 0

	// ExitValidationError indicates one or more fixtures are invalid
	ExitValidationError = 1

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for a command error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitValidationError
}
