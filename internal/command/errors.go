// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand is the sentinel error wrapped by UnknownCommandError.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidCommand is returned when dispatch is requested without a selected command.
	ErrInvalidCommand = errors.New("invalid command: no command selected")
	// ErrInvalidSpec is the sentinel error wrapped by InvalidSpecError.
	ErrInvalidSpec = errors.New("invalid command specification")
	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("duplicate command")
)

type (
	// UnknownCommandError is returned when a name is not present in a registry.
	UnknownCommandError struct {
		Name string
	}

	// InvalidSpecError describes a command declaration that cannot be registered.
	InvalidSpecError struct {
		Command string
		Reason  string
	}
)

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

// Unwrap returns ErrUnknownCommand for errors.Is.
func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// Error implements the error interface.
func (e *InvalidSpecError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("invalid command specification: %s", e.Reason)
	}
	return fmt.Sprintf("invalid command specification %q: %s", e.Command, e.Reason)
}

// Unwrap returns ErrInvalidSpec for errors.Is.
func (e *InvalidSpecError) Unwrap() error { return ErrInvalidSpec }
