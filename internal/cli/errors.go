package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/waymark-app/waymark/internal/app"
	"github.com/waymark-app/waymark/internal/location"
	"github.com/waymark-app/waymark/internal/report"
)

const (
	ExitCodeSuccess    = 0
	ExitCodeGeneric    = 1
	ExitCodeUsage      = 2
	ExitCodeNotFound   = 3
	ExitCodePermission = 4
	ExitCodeIO         = 7
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

	switch {
	case errors.Is(err, report.ErrInvalidReport):
		return asExitError(ExitCodeUsage, err)
	case errors.Is(err, report.ErrIndexOutOfRange):
		return asExitError(ExitCodeNotFound, err)
	case errors.Is(err, report.ErrBackendIO):
		return asExitError(ExitCodeIO, err)
	case errors.Is(err, location.ErrPermissionDenied),
		errors.Is(err, location.ErrPermissionDeniedForever):
		return asExitError(ExitCodePermission, err)
	case errors.Is(err, location.ErrUnavailable),
		errors.Is(err, app.ErrNoLocation):
		return asExitError(ExitCodeGeneric, err)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) || errors.Is(err, os.ErrNotExist) {
		return asExitError(ExitCodeIO, err)
	}

	return asExitError(ExitCodeGeneric, err)
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{
		Code: ExitCodeUsage,
		Err:  fmt.Errorf(format, args...),
	}
}
