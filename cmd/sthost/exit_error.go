// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/stonesthrow/stonesthrow/internal/jobevent"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// newExitError maps err to the host exit status. A failed subprocess passes
// its return code through, clamped to 1..255; everything else exits 1.
func newExitError(err error) *ExitError {
	code := 1
	var failed *jobevent.ExitError
	if errors.As(err, &failed) {
		code = min(max(failed.ReturnCode, 1), 255)
	}
	return &ExitError{Code: code, Err: err}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
