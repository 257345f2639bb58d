// SPDX-License-Identifier: MPL-2.0

package command

import (
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// Options is the merged configuration of one invocation: the well-known
// environment fields, the selected command, values bound from arguments and
// configuration values that have no declared destination.
type Options struct {
	SourcePath     string
	BuildPath      string
	PlatformName   string
	RepositoryName string

	// Command is the selected command name; empty when none was given.
	Command string

	// Extra holds configuration keys with no declared destination.
	Extra map[string]any

	values map[string]any
}

// NewOptions returns empty Options.
func NewOptions() *Options {
	return &Options{
		Extra:  make(map[string]any),
		values: make(map[string]any),
	}
}

// Set binds a value to a destination, replacing any previous value.
func (o *Options) Set(dest string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	o.values[dest] = value
}

// Has reports whether dest was bound from arguments or configuration.
func (o *Options) Has(dest string) bool {
	_, ok := o.Value(dest)
	return ok
}

// Value looks a destination up in the bound values, then in Extra.
func (o *Options) Value(dest string) (any, bool) {
	if v, ok := o.values[dest]; ok {
		return v, true
	}
	v, ok := o.Extra[dest]
	return v, ok
}

// Bool returns dest coerced to a bool (false when unset).
func (o *Options) Bool(dest string) bool {
	v, _ := o.Value(dest)
	return cast.ToBool(v)
}

// String returns dest coerced to a string ("" when unset).
func (o *Options) String(dest string) string {
	v, _ := o.Value(dest)
	return cast.ToString(v)
}

// Strings returns dest coerced to a string slice (nil when unset).
func (o *Options) Strings(dest string) []string {
	v, ok := o.Value(dest)
	if !ok {
		return nil
	}
	return cast.ToStringSlice(v)
}

// Int returns dest coerced to an int (0 when unset or not numeric).
func (o *Options) Int(dest string) int {
	v, _ := o.Value(dest)
	return cast.ToInt(v)
}

// Dests returns the bound destinations in sorted order, excluding Extra.
func (o *Options) Dests() []string {
	return slices.Sorted(maps.Keys(o.values))
}
