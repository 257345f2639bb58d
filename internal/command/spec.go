// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var commandNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

type (
	// Handler executes a bound command.
	Handler func(ctx context.Context, opts *Options) error

	// Spec accumulates the declaration of one command before registration.
	// Methods record their input; Build reports every problem at once.
	Spec struct {
		name        string
		doc         string
		needsSource bool
		hidden      bool
		args        []Argument
		handler     Handler
	}
)

// New starts a command declaration. The name is case-normalized.
func New(name string) *Spec {
	return &Spec{name: NormalizeName(name)}
}

// NormalizeName lower-cases a command name and turns underscores into dashes,
// so "Rebase_Update" and "rebase-update" name the same command.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// Doc sets the documentation. The first line is the summary; the remaining
// lines open the usage text.
func (s *Spec) Doc(doc string) *Spec {
	s.doc = doc
	return s
}

// NeedsSource marks the command as requiring a synchronized source tree.
func (s *Spec) NeedsSource() *Spec {
	s.needsSource = true
	return s
}

// Hidden keeps the command out of listings.
func (s *Spec) Hidden() *Spec {
	s.hidden = true
	return s
}

// Flag declares a store-true flag.
func (s *Spec) Flag(long, short, help string) *Spec {
	return s.Arg(Argument{Dest: DestFor(long), Long: long, Short: short, Action: ActionStoreTrue, Help: help})
}

// String declares a flag taking a single value.
func (s *Spec) String(long, short, defaultValue, help string) *Spec {
	return s.Arg(Argument{Dest: DestFor(long), Long: long, Short: short, Action: ActionStore, Default: defaultValue, Help: help})
}

// Remainder declares the argument that captures all trailing tokens.
func (s *Spec) Remainder(name, help string) *Spec {
	return s.Arg(Argument{Dest: name, Action: ActionRemainder, Help: help})
}

// Arg appends a fully specified argument.
func (s *Spec) Arg(a Argument) *Spec {
	s.args = append(s.args, a)
	return s
}

// Handler sets the function run when the command is invoked.
func (s *Spec) Handler(h Handler) *Spec {
	s.handler = h
	return s
}

// Build validates the declaration and returns its Descriptor.
func (s *Spec) Build() (*Descriptor, error) {
	invalid := func(format string, args ...any) error {
		return &InvalidSpecError{Command: s.name, Reason: fmt.Sprintf(format, args...)}
	}

	if !commandNamePattern.MatchString(s.name) {
		return nil, invalid("name must start with a letter and contain only letters, digits and dashes")
	}
	summary, rest := splitDoc(s.doc)
	if summary == "" {
		return nil, invalid("missing documentation summary")
	}
	if s.handler == nil {
		return nil, invalid("missing handler")
	}

	dests := make(map[string]bool, len(s.args))
	longs := make(map[string]bool, len(s.args))
	shorts := make(map[string]bool, len(s.args))
	remainders := 0
	for i := range s.args {
		a := &s.args[i]
		if err := a.validate(); err != nil {
			return nil, invalid("argument %d: %v", i, err)
		}
		if dests[a.Dest] {
			return nil, invalid("duplicate destination %q", a.Dest)
		}
		dests[a.Dest] = true
		if a.Action == ActionRemainder {
			remainders++
			continue
		}
		if longs[a.Long] {
			return nil, invalid("duplicate flag --%s", a.Long)
		}
		longs[a.Long] = true
		if a.Short != "" {
			if shorts[a.Short] {
				return nil, invalid("duplicate shorthand -%s", a.Short)
			}
			shorts[a.Short] = true
		}
	}
	if remainders > 1 {
		return nil, invalid("at most one remainder argument is allowed")
	}

	args := make([]Argument, len(s.args))
	copy(args, s.args)

	d := &Descriptor{
		Name:        s.name,
		Summary:     summary,
		NeedsSource: s.needsSource,
		Visible:     !s.hidden,
		Arguments:   args,
		Handler:     s.handler,
	}
	d.Usage = renderUsage(rest, args)
	return d, nil
}

// splitDoc returns the first non-blank line and the dedented remainder.
func splitDoc(doc string) (summary, rest string) {
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	summary = strings.TrimSpace(lines[0])
	body := make([]string, 0, len(lines))
	for _, line := range lines[1:] {
		body = append(body, strings.TrimSpace(line))
	}
	return summary, strings.TrimSpace(strings.Join(body, "\n"))
}
