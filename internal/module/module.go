// SPDX-License-Identifier: MPL-2.0

package module

import (
	"context"

	"github.com/stonesthrow/stonesthrow/internal/binder"
	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/config"
	"github.com/stonesthrow/stonesthrow/internal/jobevent"
)

type (
	// Module is a named set of commands the host can list, inspect and run.
	Module interface {
		Name() string
		// ConfigureFlags returns the module-level parser. cfg may be nil.
		ConfigureFlags(cfg *config.Config) *binder.Parser
		ListCommands(opts *command.Options) []command.Info
		NeedsSource(opts *command.Options) (bool, error)
		// Run executes the selected command; command.ErrInvalidCommand when none is selected.
		Run(ctx context.Context, opts *command.Options) error
	}

	// Env is what a module gets when it is set up.
	Env struct {
		Emitter *jobevent.Emitter
	}

	// Factory sets up a module.
	Factory func(env Env) (Module, error)

	registryModule struct {
		name string
		reg  *command.Registry
	}
)

// FromRegistry adapts a command registry to the Module interface.
func FromRegistry(name string, reg *command.Registry) Module {
	return &registryModule{name: name, reg: reg}
}

func (m *registryModule) Name() string { return m.name }

func (m *registryModule) ConfigureFlags(cfg *config.Config) *binder.Parser {
	return binder.NewParser(m.reg, cfg)
}

func (m *registryModule) ListCommands(*command.Options) []command.Info {
	return m.reg.Infos()
}

func (m *registryModule) NeedsSource(opts *command.Options) (bool, error) {
	return m.reg.NeedsSource(opts)
}

func (m *registryModule) Run(ctx context.Context, opts *command.Options) error {
	return m.reg.Run(ctx, opts)
}
