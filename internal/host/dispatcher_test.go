// SPDX-License-Identifier: MPL-2.0

package host

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stonesthrow/stonesthrow/internal/binder"
	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/config"
	"github.com/stonesthrow/stonesthrow/internal/issue"
	"github.com/stonesthrow/stonesthrow/internal/jobevent"
	"github.com/stonesthrow/stonesthrow/internal/module"
	"github.com/stonesthrow/stonesthrow/internal/testutil"
)

type fixture struct {
	dispatcher *Dispatcher
	stdout     *bytes.Buffer
	events     *bytes.Buffer
	loads      atomic.Int32
	calls      atomic.Int32
	lastOpts   *command.Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{stdout: &bytes.Buffer{}, events: &bytes.Buffer{}}
	em := jobevent.NewEmitter(f.events, &bytes.Buffer{})

	factory := func(env module.Env) (module.Module, error) {
		f.loads.Add(1)
		record := func(ctx context.Context, opts *command.Options) error {
			f.calls.Add(1)
			f.lastOpts = opts
			return nil
		}
		reg := command.NewRegistry()
		err := reg.Add(
			command.New("build").
				Doc("build specified targets").
				NeedsSource().
				Remainder("targets", "targets to build").
				Handler(record),
			command.New("sync").
				Doc("Sync the checkout").
				Flag("force", "f", "discard local changes").
				String("branch", "b", "main", "branch to sync").
				Handler(record),
			command.New("fail").
				Doc("Run a failing process").
				Handler(func(ctx context.Context, _ *command.Options) error {
					f.calls.Add(1)
					_, err := env.Emitter.RunChecked(ctx, "", "sh", "-c", "exit 3")
					return err
				}),
		)
		if err != nil {
			return nil, err
		}
		return module.FromRegistry("test", reg), nil
	}

	f.dispatcher = &Dispatcher{
		Loader:  module.NewLoader(module.WithBuiltin("test", factory)),
		Stdout:  f.stdout,
		Emitter: em,
	}
	return f
}

func (f *fixture) dispatch(req Request) error {
	if req.Module == "" {
		req.Module = "test"
	}
	return f.dispatcher.Dispatch(context.Background(), req)
}

func TestRequestMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		req  Request
		want Mode
	}{
		{Request{}, ModeRun},
		{Request{VerifySourceNeeded: true}, ModeVerifySource},
		{Request{ListCommands: true}, ModeList},
		{Request{ListCommands: true, VerifySourceNeeded: true}, ModeList},
	}
	for _, tt := range tests {
		if got := tt.req.Mode(); got != tt.want {
			t.Errorf("Mode(%+v) = %q, want %q", tt.req, got, tt.want)
		}
	}
}

func TestDispatch_List(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.dispatch(Request{ListCommands: true, Args: []string{"--bogus"}}); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	if f.calls.Load() != 0 {
		t.Error("listing must not run handlers")
	}
	if f.events.Len() != 0 {
		t.Errorf("listing must not emit events: %q", f.events.String())
	}
	if !strings.HasSuffix(f.stdout.String(), "}\n") || strings.Count(f.stdout.String(), "\n") != 1 {
		t.Errorf("expected exactly one JSON line, got %q", f.stdout.String())
	}

	var doc struct {
		Command []command.Info `json:"command"`
	}
	if err := json.Unmarshal(f.stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Command) != 3 {
		t.Fatalf("got %d commands", len(doc.Command))
	}
	build := doc.Command[0]
	if build.Name != "build" || build.Summary != "build specified targets" || !build.NeedsSource || !build.Visible {
		t.Errorf("build = %+v", build)
	}
	if !strings.Contains(build.Usage, "TARGETS ...") {
		t.Errorf("usage = %q", build.Usage)
	}
}

func TestDispatch_VerifySource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"sync", "--force"}, "{\"result\":false}\n"},
		{[]string{"build", "chrome"}, "{\"result\":true}\n"},
	}

	for _, tt := range tests {
		f := newFixture(t)
		if err := f.dispatch(Request{VerifySourceNeeded: true, Args: tt.args}); err != nil {
			t.Fatalf("Dispatch(%v) error: %v", tt.args, err)
		}
		if f.stdout.String() != tt.want {
			t.Errorf("Dispatch(%v) wrote %q, want %q", tt.args, f.stdout.String(), tt.want)
		}
		if f.calls.Load() != 0 || f.events.Len() != 0 {
			t.Errorf("verify must not run the handler (calls=%d events=%q)", f.calls.Load(), f.events.String())
		}
	}
}

func TestDispatch_VerifyWithoutCommand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.dispatch(Request{VerifySourceNeeded: true})
	if !errors.Is(err, command.ErrInvalidCommand) {
		t.Errorf("Dispatch() error = %v, want ErrInvalidCommand", err)
	}
	if f.stdout.Len() != 0 {
		t.Errorf("nothing should be written, got %q", f.stdout.String())
	}
}

func TestDispatch_ConflictingConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.dispatch(Request{Config: `{}`, ConfigFile: "config.json", Args: []string{"sync"}})

	var argErr *binder.ArgumentError
	if !errors.As(err, &argErr) || !errors.Is(err, config.ErrConflictingConfiguration) {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if f.loads.Load() != 0 {
		t.Error("module must not be loaded when flags conflict")
	}
}

func TestDispatch_MissingConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.dispatch(Request{Args: []string{"sync"}})
	if !errors.Is(err, config.ErrMissingConfiguration) {
		t.Fatalf("Dispatch() error = %v, want ErrMissingConfiguration", err)
	}
	if f.calls.Load() != 0 {
		t.Error("handler must not run without configuration")
	}
}

func TestDispatch_InvalidConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.dispatch(Request{VerifySourceNeeded: true, Config: `[1]`, Args: []string{"sync"}})
	if !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Fatalf("Dispatch() error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestDispatch_ListValidatesConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.dispatch(Request{ListCommands: true, Config: `[1]`})
	if !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Fatalf("Dispatch() error = %v, want ErrInvalidConfiguration", err)
	}
	if f.stdout.Len() != 0 {
		t.Errorf("nothing should be listed, got %q", f.stdout.String())
	}

	f = newFixture(t)
	if err := f.dispatch(Request{ListCommands: true, Config: `{"out": "out/Debug"}`}); err != nil {
		t.Errorf("Dispatch() with valid config error: %v", err)
	}
}

func TestDispatch_ModuleErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.dispatcher.Dispatch(context.Background(), Request{ListCommands: true})
	if !errors.Is(err, ErrModuleRequired) {
		t.Errorf("Dispatch() without module = %v", err)
	}

	err = f.dispatch(Request{Module: "nope", ListCommands: true, SysPaths: []string{t.TempDir()}})
	if !errors.Is(err, module.ErrModuleNotFound) {
		t.Fatalf("Dispatch(nope) error = %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || len(ae.Suggestions) != 2 || !strings.Contains(ae.Suggestions[0], "test") {
		t.Errorf("not-found error should list built-ins: %#v", ae)
	}
	if ae != nil && ae.Issue != issue.ModuleNotFoundId {
		t.Errorf("Issue = %d, want the module-not-found entry", ae.Issue)
	}
}

func TestDispatch_Run(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	err := f.dispatch(Request{
		Config: `{"source_path": "/src", "branch": "release", "goma_path": "/goma"}`,
		Args:   []string{"sync", "-b", "dev", "-f"},
	})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if f.calls.Load() != 1 {
		t.Fatalf("handler calls = %d", f.calls.Load())
	}

	opts := f.lastOpts
	if opts.Command != "sync" || opts.SourcePath != "/src" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.String("branch") != "release" {
		t.Errorf("branch = %q, configuration should win", opts.String("branch"))
	}
	if !opts.Bool("force") {
		t.Error("force should be bound from arguments")
	}
	if opts.Extra["goma_path"] != "/goma" {
		t.Errorf("Extra = %v", opts.Extra)
	}
	if f.stdout.Len() != 0 {
		t.Errorf("run mode must not write documents: %q", f.stdout.String())
	}
}

func TestDispatch_RunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no command", nil, command.ErrInvalidCommand},
		{"unknown command", []string{"deploy"}, command.ErrUnknownCommand},
		{"bad flag", []string{"sync", "--nope"}, binder.ErrArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			err := f.dispatch(Request{Config: `{}`, Args: tt.args})
			if !errors.Is(err, tt.want) {
				t.Errorf("Dispatch(%v) error = %v, want %v", tt.args, err, tt.want)
			}
			if f.calls.Load() != 0 {
				t.Error("handler must not run")
			}
		})
	}
}

func TestDispatch_RunPropagatesReturnCode(t *testing.T) {
	t.Parallel()
	testutil.SkipWithoutShell(t)

	f := newFixture(t)
	err := f.dispatch(Request{Config: `{}`, Args: []string{"fail"}})

	var exitErr *jobevent.ExitError
	if !errors.As(err, &exitErr) || exitErr.ReturnCode != 3 {
		t.Fatalf("Dispatch() error = %v", err)
	}

	events, _, err := jobevent.Collect(bytes.NewReader(f.events.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[1].EndCommandEvent == nil || events[1].EndCommandEvent.ReturnCode != 3 {
		t.Errorf("events = %+v", events)
	}
}

func TestDispatch_ManifestOnSysPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := `commands: [{name: "hello", doc: "Say hello", needs_source: true, run: "echo hello"}]`
	testutil.MustWriteFile(t, filepath.Join(dir, "greeter.cue"), manifest)

	f := newFixture(t)
	err := f.dispatch(Request{Module: "greeter", SysPaths: []string{dir}, VerifySourceNeeded: true, Args: []string{"hello"}})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if f.stdout.String() != "{\"result\":true}\n" {
		t.Errorf("stdout = %q", f.stdout.String())
	}

	// The search path only applies to the request that named it.
	err = f.dispatch(Request{Module: "greeter", ListCommands: true})
	if !errors.Is(err, module.ErrModuleNotFound) {
		t.Errorf("second Dispatch() error = %v", err)
	}
}
