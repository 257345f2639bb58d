// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load module"},
			expected: "failed to load module",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load module", Resource: "chromium"},
			expected: "failed to load module: chromium",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "parse configuration", Cause: errors.New("unexpected EOF")},
			expected: "failed to parse configuration: unexpected EOF",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "read configuration file",
				Resource:  "platform.json",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to read configuration file: platform.json: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("module not found")
	err := NewErrorContext().WithOperation("load module").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find the ActionableError")
	}
	if (&ActionableError{Operation: "x"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when there is no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "read configuration file",
		Resource:    "platform.json",
		Suggestions: []string{"Check the file permissions", "Pass --config instead"},
		Cause:       &ActionableError{Operation: "open file", Cause: inner},
	}

	plain := err.Format(false)
	if !strings.Contains(plain, "• Check the file permissions") || !strings.Contains(plain, "• Pass --config instead") {
		t.Errorf("suggestions missing from:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("non-verbose output should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "2. permission denied") {
		t.Errorf("verbose output should list the chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without an operation should return a nil interface")
	}

	ae := NewErrorContext().
		WithOperation("load module").
		WithResource("chromium").
		WithSuggestion("one").
		WithSuggestion("two").
		Build()
	if ae == nil || len(ae.Suggestions) != 2 || !ae.HasSuggestions() {
		t.Fatalf("unexpected build result: %#v", ae)
	}
}

func TestErrorContext_WithIssue(t *testing.T) {
	t.Parallel()

	ae := NewErrorContext().WithOperation("load module").WithIssue(ModuleNotFoundId).Build()
	if ae.Issue != ModuleNotFoundId {
		t.Errorf("Issue = %d, want %d", ae.Issue, ModuleNotFoundId)
	}
	if Get(ae.Issue) == nil {
		t.Error("the linked issue should exist in the catalog")
	}
}
