// SPDX-License-Identifier: MPL-2.0

package chromium

import (
	"errors"
	"path/filepath"
	goruntime "runtime"
	"strconv"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/jobevent"
	"github.com/stonesthrow/stonesthrow/internal/module"
)

// Name is the module name passed with --module.
const Name = "chromium"

var (
	// ErrNoTargets is returned when a build is requested without targets.
	ErrNoTargets = errors.New("no targets specified")
	// ErrNoBuildPath is returned when neither build_path nor out is configured.
	ErrNoBuildPath = errors.New("build path is not configured")
	// ErrNoMbConfig is returned when prepare runs without an mb_config.
	ErrNoMbConfig = errors.New("mb_config is not configured")
)

type (
	// Tools names the executables the module launches.
	Tools struct {
		Ninja  string
		Git    string
		Python string
	}

	// Option configures the module.
	Option func(*commands)

	commands struct {
		em    *jobevent.Emitter
		tools Tools
	}
)

// WithTools replaces the default executables. Empty fields keep their default.
func WithTools(t Tools) Option {
	return func(c *commands) {
		if t.Ninja != "" {
			c.tools.Ninja = t.Ninja
		}
		if t.Git != "" {
			c.tools.Git = t.Git
		}
		if t.Python != "" {
			c.tools.Python = t.Python
		}
	}
}

// DefaultTools returns the executables looked up on PATH.
func DefaultTools() Tools {
	return Tools{Ninja: "ninja", Git: "git", Python: "python3"}
}

// Factory returns the module factory registered with the loader.
func Factory(opts ...Option) module.Factory {
	return func(env module.Env) (module.Module, error) {
		c := &commands{em: env.Emitter, tools: DefaultTools()}
		for _, opt := range opts {
			opt(c)
		}
		reg, err := c.registry()
		if err != nil {
			return nil, err
		}
		return module.FromRegistry(Name, reg), nil
	}
}

func (c *commands) registry() (*command.Registry, error) {
	reg := command.NewRegistry()
	err := reg.Add(
		command.New("build").
			Doc("Build specified targets").
			NeedsSource().
			Remainder("targets", "targets to build").
			Handler(c.build),
		command.New("clean").
			Doc(`Clean specified targets

			Without --force, only lists what ninja would remove.`).
			Flag("force", "", "actually remove the files").
			Remainder("targets", "targets to clean (all when empty)").
			Handler(c.clean),
		command.New("clobber").
			Doc(`Remove files from the build or source directory

			Without --force, only reports what would be removed. Clobbering the
			build directory regenerates it afterwards.`).
			Flag("src", "", "clean untracked files in the source directory instead").
			Flag("force", "", "actually do the cleaning").
			Handler(c.clobber),
		command.New("prepare").
			Doc("Generate the build directory with mb").
			NeedsSource().
			Handler(c.prepare),
		command.New("run").
			Doc(`Run a command in the build directory

			{src} and {out} in arguments expand to the source and build paths.`).
			Remainder("command", "command line to run").
			Handler(c.run),
		command.New("rebase-update").
			Doc("Rebase all local branches onto their upstreams").
			Flag("fetch", "", "fetch upstreams before rebasing").
			Handler(c.rebaseUpdate),
	)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// buildPath returns build_path, or out resolved against the source path.
func buildPath(opts *command.Options) (string, error) {
	if opts.BuildPath != "" {
		return opts.BuildPath, nil
	}
	out := opts.String("out")
	if out == "" {
		return "", ErrNoBuildPath
	}
	if filepath.IsAbs(out) {
		return out, nil
	}
	return filepath.Join(opts.SourcePath, out), nil
}

func (c *commands) ninja(opts *command.Options, build string, args ...string) []string {
	argv := []string{c.tools.Ninja, "-C", build}
	if jobs := opts.Int("max_build_jobs"); jobs > 0 {
		argv = append(argv, "-j", strconv.Itoa(jobs))
	}
	return append(argv, args...)
}

func (c *commands) mbTool(opts *command.Options) []string {
	if goruntime.GOOS == "windows" {
		return []string{filepath.Join(opts.SourcePath, "tools", "mb", "mb.bat")}
	}
	return []string{c.tools.Python, filepath.Join(opts.SourcePath, "tools", "mb", "mb.py")}
}

func expandTokens(args []string, opts *command.Options, build string) []string {
	r := strings.NewReplacer("{src}", opts.SourcePath, "{out}", build)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
