// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"errors"
	"fmt"
)

// ErrArgument is the sentinel error wrapped by ArgumentError.
var ErrArgument = errors.New("argument error")

// ArgumentError reports a malformed or unknown argument.
type ArgumentError struct {
	// Token is the offending command-line token or configuration key.
	Token string
	// Usage is the usage text of the parser that rejected the token.
	Usage string
	Err   error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("argument error: %v", e.Err)
	}
	return fmt.Sprintf("argument error: %s: %v", e.Token, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *ArgumentError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrArgument}
	}
	return []error{ErrArgument, e.Err}
}
