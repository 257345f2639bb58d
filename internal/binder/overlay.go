// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"fmt"

	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/config"

	"github.com/spf13/cast"
)

// Overlay applies cfg onto opts; configuration wins over bound arguments.
// The four environment keys fill the typed fields, keys naming one of d's
// argument destinations replace the bound value after coercion to the
// argument's type, and every other key lands in opts.Extra. Nothing is
// written unless every key coerces.
func Overlay(d *command.Descriptor, opts *command.Options, cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	actions := make(map[string]command.Action)
	if d != nil {
		for _, a := range d.Arguments {
			actions[a.Dest] = a.Action
		}
	}

	bound := make(map[string]any)
	extra := make(map[string]any)
	for _, key := range cfg.Keys() {
		v, _ := cfg.Value(key)
		switch key {
		case "source_path", "build_path", "platform_name", "repository_name":
			continue
		}

		action, declared := actions[key]
		if !declared {
			extra[key] = v
			continue
		}
		coerced, err := coerce(action, v)
		if err != nil {
			return &ArgumentError{Token: key, Err: fmt.Errorf("configuration value: %w", err)}
		}
		bound[key] = coerced
	}

	if cfg.Has("source_path") {
		opts.SourcePath = cfg.SourcePath
	}
	if cfg.Has("build_path") {
		opts.BuildPath = cfg.BuildPath
	}
	if cfg.Has("platform_name") {
		opts.PlatformName = cfg.PlatformName
	}
	if cfg.Has("repository_name") {
		opts.RepositoryName = cfg.RepositoryName
	}
	for k, v := range bound {
		opts.Set(k, v)
	}
	if opts.Extra == nil {
		opts.Extra = make(map[string]any, len(extra))
	}
	for k, v := range extra {
		opts.Extra[k] = v
	}
	return nil
}

func coerce(action command.Action, v any) (any, error) {
	switch action {
	case command.ActionStoreTrue:
		return cast.ToBoolE(v)
	case command.ActionRemainder:
		if s, ok := v.(string); ok {
			return []string{s}, nil
		}
		return cast.ToStringSliceE(v)
	default:
		return cast.ToStringE(v)
	}
}
