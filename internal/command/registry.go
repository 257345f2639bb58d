// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"fmt"
)

// Registry maps command names to descriptors, preserving registration order.
// A registry is assembled once when a module is set up and only read after.
type Registry struct {
	order  []string
	byName map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Names must be unique.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return &InvalidSpecError{Reason: "nil descriptor"}
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCommand, d.Name)
	}
	r.byName[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Add builds each spec and registers the result, stopping at the first error.
func (r *Registry) Add(specs ...*Spec) error {
	for _, s := range specs {
		d, err := s.Build()
		if err != nil {
			return err
		}
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	if d, ok := r.byName[NormalizeName(name)]; ok {
		return d, nil
	}
	return nil, &UnknownCommandError{Name: name}
}

// Commands returns the descriptors in registration order.
func (r *Registry) Commands() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Infos returns the listing view of every visible command, in registration order.
func (r *Registry) Infos() []Info {
	out := make([]Info, 0, len(r.order))
	for _, d := range r.Commands() {
		if !d.Visible {
			continue
		}
		out = append(out, d.Info())
	}
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}

// NeedsSource reports the needs-source flag of the command selected in opts.
func (r *Registry) NeedsSource(opts *Options) (bool, error) {
	d, err := r.selected(opts)
	if err != nil {
		return false, err
	}
	return d.NeedsSource, nil
}

// Run invokes the handler of the command selected in opts.
func (r *Registry) Run(ctx context.Context, opts *Options) error {
	d, err := r.selected(opts)
	if err != nil {
		return err
	}
	return d.Handler(ctx, opts)
}

func (r *Registry) selected(opts *Options) (*Descriptor, error) {
	if opts == nil || opts.Command == "" {
		return nil, ErrInvalidCommand
	}
	return r.Lookup(opts.Command)
}
