// Package cli implements the threadcopy command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/tOgg1/threadcopy/internal/models"
)

// Exit codes.
const (
	ExitCodeSuccess    = 0
	ExitCodeFailure    = 1
	ExitCodeNoThread   = 2
	ExitCodeNoMessages = 3
	ExitCodeNoText     = 4
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
	// Printed is set when the failure was already reported to the user.
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exitf builds an ExitError with a formatted message.
func Exitf(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// exitCodeFor maps an extraction outcome to a process exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, models.ErrNoDrawer):
		return ExitCodeNoThread
	case errors.Is(err, models.ErrNoMessages):
		return ExitCodeNoMessages
	case errors.Is(err, models.ErrNoText):
		return ExitCodeNoText
	default:
		return ExitCodeFailure
	}
}
