package output

import "errors"

// Exit codes following sysexits.h convention
const (
	ExitOK          = 0  // Success
	ExitGeneral     = 1  // General error
	ExitUsage       = 2  // Invalid usage / bad arguments
	ExitNotFound    = 4  // Key not found
	ExitForbidden   = 6  // Permission denied
	ExitConfigError = 10 // Configuration or keys file error
)

// CLIError represents a structured error with exit code and optional hint
type CLIError struct {
	ExitCode int
	Message  string
	Hint     string
	Err      error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying error, if any
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError
func NewCLIError(code int, msg string) *CLIError {
	return &CLIError{
		ExitCode: code,
		Message:  msg,
	}
}

// WithHint adds a user-facing hint to the error
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// Wrap records the underlying error so callers can still errors.As through it
func (e *CLIError) Wrap(err error) *CLIError {
	e.Err = err
	return e
}

// Report prints err through formatter and returns the process exit code for it
func Report(formatter Formatter, err error) int {
	formatter.PrintError(err)

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Hint != "" {
			formatter.PrintHint(cliErr.Hint)
		}
		return cliErr.ExitCode
	}

	return ExitGeneral
}
