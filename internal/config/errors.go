// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration is returned when configuration is required but
	// neither --config nor --config_file was given.
	ErrMissingConfiguration = errors.New("missing configuration: one of --config or --config_file is required")
	// ErrConflictingConfiguration is returned when both --config and --config_file are given.
	ErrConflictingConfiguration = errors.New("--config and --config_file are mutually exclusive")
	// ErrInvalidConfiguration is the sentinel error wrapped by InvalidConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// InvalidConfigurationError reports a configuration blob that could not be decoded.
type InvalidConfigurationError struct {
	// Source is the file path, or "--config" for a literal.
	Source string
	Err    error
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration in %s: %v", e.Source, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *InvalidConfigurationError) Unwrap() []error {
	return []error{ErrInvalidConfiguration, e.Err}
}
