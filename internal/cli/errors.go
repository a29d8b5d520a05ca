package cli

import (
	"errors"
	"fmt"

	"github.com/dcsteve24/go-utilities/internal/ports"
	"github.com/dcsteve24/go-utilities/internal/remote"
)

const (
	ExitCodeSuccess           = 0
	ExitCodeGeneric           = 1
	ExitCodeUsage             = 2
	ExitCodeNotFound          = 3
	ExitCodeDependencyMissing = 6
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func asExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}
	return &ExitError{Code: code, Err: err}
}

func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}

	if errors.Is(err, remote.ErrDependencyUnavailable) {
		return asExitError(ExitCodeDependencyMissing, err)
	}
	var notFound *ports.CommandNotFoundError
	if errors.As(err, &notFound) {
		return asExitError(ExitCodeDependencyMissing, err)
	}

	return asExitError(ExitCodeGeneric, err)
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{
		Code: ExitCodeUsage,
		Err:  fmt.Errorf(format, args...),
	}
}
