// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// ActionStore binds the single value following the flag.
	ActionStore Action = "store"
	// ActionStoreTrue binds true when the flag is present.
	ActionStoreTrue Action = "store_true"
	// ActionRemainder binds every token left after flag parsing.
	ActionRemainder Action = "remainder"
)

// ErrInvalidAction is the sentinel error wrapped by InvalidActionError.
var ErrInvalidAction = errors.New("invalid argument action")

var (
	flagNamePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	shorthandPattern = regexp.MustCompile(`^[A-Za-z]$`)
)

type (
	// Action specifies how an argument consumes command-line tokens.
	Action string

	// InvalidActionError is returned when an Action value is not recognized.
	InvalidActionError struct {
		Value Action
	}

	// Argument declares one argument of a command.
	Argument struct {
		// Dest is the Options key the value is bound to.
		Dest string `json:"dest"`
		// Long is the long flag name without dashes. Empty for remainders.
		Long string `json:"long,omitempty"`
		// Short is an optional single-letter alias.
		Short string `json:"short,omitempty"`
		// Action selects the parsing behavior.
		Action Action `json:"action"`
		// Default is the value bound when a store flag is absent.
		Default string `json:"default,omitempty"`
		// Metavar names the value in usage text.
		Metavar string `json:"metavar,omitempty"`
		// Help is the one-line description shown in usage text.
		Help string `json:"help,omitempty"`
	}
)

// Error implements the error interface.
func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid argument action %q (valid: store, store_true, remainder)", e.Value)
}

// Unwrap returns ErrInvalidAction for errors.Is.
func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// IsValid reports whether the Action is one of the defined actions.
func (a Action) IsValid() (bool, []error) {
	switch a {
	case ActionStore, ActionStoreTrue, ActionRemainder:
		return true, nil
	default:
		return false, []error{&InvalidActionError{Value: a}}
	}
}

// IsFlag reports whether the argument is consumed as a named flag.
func (a *Argument) IsFlag() bool {
	return a.Action != ActionRemainder
}

// DestFor derives the Options key from a flag name: "max-jobs" -> "max_jobs".
func DestFor(long string) string {
	return strings.ReplaceAll(long, "-", "_")
}

func (a *Argument) validate() error {
	if ok, errs := a.Action.IsValid(); !ok {
		return errs[0]
	}
	if a.Dest == "" {
		return errors.New("argument has no destination")
	}
	if a.Action == ActionRemainder {
		if a.Long != "" || a.Short != "" {
			return fmt.Errorf("remainder %q cannot have flag names", a.Dest)
		}
		return nil
	}
	if !flagNamePattern.MatchString(a.Long) {
		return fmt.Errorf("invalid flag name %q", a.Long)
	}
	if a.Short != "" && !shorthandPattern.MatchString(a.Short) {
		return fmt.Errorf("invalid shorthand %q for --%s", a.Short, a.Long)
	}
	if a.Long == "help" || a.Short == "h" {
		return fmt.Errorf("--%s: help flags are reserved", a.Long)
	}
	if a.Action == ActionStoreTrue && a.Default != "" && a.Default != "true" && a.Default != "false" {
		return fmt.Errorf("--%s: boolean default must be true or false", a.Long)
	}
	return nil
}

// label renders the argument as it appears in usage text.
func (a *Argument) label() string {
	switch a.Action {
	case ActionRemainder:
		return a.metavar() + " ..."
	case ActionStoreTrue:
		return a.flagNames()
	default:
		return a.flagNames() + " " + a.metavar()
	}
}

func (a *Argument) flagNames() string {
	if a.Short != "" {
		return "-" + a.Short + ", --" + a.Long
	}
	return "    --" + a.Long
}

func (a *Argument) metavar() string {
	if a.Metavar != "" {
		return a.Metavar
	}
	return strings.ToUpper(a.Dest)
}
