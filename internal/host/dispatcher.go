// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/binder"
	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/config"
	"github.com/stonesthrow/stonesthrow/internal/issue"
	"github.com/stonesthrow/stonesthrow/internal/jobevent"
	"github.com/stonesthrow/stonesthrow/internal/module"
)

const (
	// ModeList prints the module's commands.
	ModeList Mode = "list"
	// ModeVerifySource reports whether the selected command needs source.
	ModeVerifySource Mode = "verify-source"
	// ModeRun runs the selected command.
	ModeRun Mode = "run"
)

// ErrModuleRequired is returned when no module name is given.
var ErrModuleRequired = errors.New("--module is required")

type (
	// Mode is one of the dispatcher's terminal modes.
	Mode string

	// Request carries the host-level flags of one invocation.
	Request struct {
		Module             string
		SysPaths           []string
		Config             string
		ConfigFile         string
		ListCommands       bool
		VerifySourceNeeded bool
		// Args is forwarded verbatim to the module-level parser.
		Args []string
	}

	// Dispatcher routes a Request to a module.
	Dispatcher struct {
		Loader *module.Loader
		// Stdout receives the list and verify documents.
		Stdout  io.Writer
		Emitter *jobevent.Emitter
	}

	listing struct {
		Command []command.Info `json:"command"`
	}

	verification struct {
		Result bool `json:"result"`
	}
)

// Mode returns the mode selected by the request flags; list wins over verify.
func (r *Request) Mode() Mode {
	switch {
	case r.ListCommands:
		return ModeList
	case r.VerifySourceNeeded:
		return ModeVerifySource
	default:
		return ModeRun
	}
}

// Dispatch handles one request.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	if req.Config != "" && req.ConfigFile != "" {
		return &binder.ArgumentError{Token: "--config_file", Err: config.ErrConflictingConfiguration}
	}
	if req.Module == "" {
		return &binder.ArgumentError{Token: "--module", Err: ErrModuleRequired}
	}

	mode := req.Mode()
	slog.Debug("dispatching", "mode", mode, "module", req.Module, "args", req.Args)

	mod, err := d.load(req)
	if err != nil {
		return err
	}

	// Configuration is optional outside run mode but always validated.
	cfg, err := config.Resolve(req.Config, req.ConfigFile)
	switch {
	case errors.Is(err, config.ErrMissingConfiguration) && mode != ModeRun:
		cfg = nil
	case err != nil:
		return err
	}

	if mode == ModeList {
		return d.write(listing{Command: mod.ListCommands(command.NewOptions())})
	}

	opts, err := mod.ConfigureFlags(cfg).Parse(req.Args)
	if err != nil {
		return err
	}

	if mode == ModeVerifySource {
		needs, err := mod.NeedsSource(opts)
		if err != nil {
			return err
		}
		return d.write(verification{Result: needs})
	}

	slog.Debug("running command", "module", mod.Name(), "command", opts.Command)
	return mod.Run(ctx, opts)
}

func (d *Dispatcher) load(req Request) (module.Module, error) {
	loader := d.Loader.Extend(req.SysPaths...)
	mod, err := loader.Load(req.Module, module.Env{Emitter: d.Emitter})
	if err == nil {
		return mod, nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("load module").
		WithResource(req.Module)
	if errors.Is(err, module.ErrModuleNotFound) {
		ctx = ctx.WithIssue(issue.ModuleNotFoundId)
		if builtins := loader.Builtins(); len(builtins) > 0 {
			ctx = ctx.WithSuggestion("Built-in modules: " + strings.Join(builtins, ", "))
		}
		ctx = ctx.WithSuggestion(fmt.Sprintf("Add the directory holding %s%s with --sys_path", req.Module, module.ManifestExt))
	}
	return nil, ctx.Wrap(err).BuildError()
}

// write emits one JSON document followed by a newline.
func (d *Dispatcher) write(v any) error {
	enc := json.NewEncoder(d.Stdout)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
