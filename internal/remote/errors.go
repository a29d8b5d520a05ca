package remote

import (
	"errors"
	"fmt"
)

const ExitCodeDependencyUnavailable = 6

var (
	ErrDependencyUnavailable = errors.New("remote: dependency unavailable")
)

// CommandError reports that a remote session emitted error output while
// error checking was enabled. Stderr holds the joined post-banner text.
type CommandError struct {
	Stderr string
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("remote command failed: %s", e.Stderr)
}

type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return 0
	}
	return e.Code
}

func IsExitCode(err error, code int) bool {
	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == code
	}
	return false
}
