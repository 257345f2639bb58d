// SPDX-License-Identifier: MPL-2.0

package jobevent

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyCommand is returned when a launch is requested with no argv.
	ErrEmptyCommand = errors.New("empty command")
	// ErrLaunchFailure is the sentinel error wrapped by LaunchError.
	ErrLaunchFailure = errors.New("launch failure")
	// ErrCommandFailed is the sentinel error wrapped by ExitError.
	ErrCommandFailed = errors.New("command failed")
	// ErrMalformedEvent is returned for control lines that cannot be decoded.
	ErrMalformedEvent = errors.New("malformed control line")
)

type (
	// LaunchError reports a process that could not be started.
	LaunchError struct {
		Argv []string
		Err  error
	}

	// ExitError reports a process that exited with a non-zero return code.
	// ReturnCode is -1 when the process was terminated by a signal.
	ExitError struct {
		Argv       []string
		ReturnCode int
	}
)

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch failure: %s: %v", strings.Join(e.Argv, " "), e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *LaunchError) Unwrap() []error { return []error{ErrLaunchFailure, e.Err} }

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with return code %d", strings.Join(e.Argv, " "), e.ReturnCode)
}

// Unwrap returns ErrCommandFailed for errors.Is.
func (e *ExitError) Unwrap() error { return ErrCommandFailed }
