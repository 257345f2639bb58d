// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the sthost command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/stonesthrow/stonesthrow/internal/binder"
	"github.com/stonesthrow/stonesthrow/internal/host"
	"github.com/stonesthrow/stonesthrow/internal/jobevent"
	"github.com/stonesthrow/stonesthrow/internal/module"
	"github.com/stonesthrow/stonesthrow/internal/modules/chromium"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type hostFlags struct {
	config     string
	configFile string
	module     string
	sysPaths   []string
	verify     bool
	list       bool
	verbose    bool
	timeout    time.Duration
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newLoader returns the module loader with every built-in module registered.
func newLoader() *module.Loader {
	return module.NewLoader(
		module.WithBuiltin(chromium.Name, chromium.Factory()),
	)
}

func newRootCommand(loader *module.Loader, stdout, stderr io.Writer) *cobra.Command {
	var flags hostFlags

	cmd := &cobra.Command{
		Use:   "sthost [flags] [command] [args...]",
		Short: "Host for stonesthrow modules",
		Long: TitleStyle.Render("sthost") + SubtitleStyle.Render(" - host for stonesthrow modules") + `

sthost loads a module, binds the module-level arguments and configuration,
and runs the selected command. Subprocess output and control lines share
standard output; diagnostics go to standard error.

` + SubtitleStyle.Render("Examples:") + `
  sthost --module chromium --list-commands
  sthost --module chromium --verify-source-needed build chrome
  sthost --module chromium --config_file job.json build chrome`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			installLogger(stderr, flags.verbose)
			return run(cmd.Context(), loader, flags, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.SetInterspersed(false)
	f.StringVar(&flags.config, "config", "", "configuration as a JSON object")
	f.StringVar(&flags.configFile, "config_file", "", "configuration file (.json, .cue, .toml, .yaml)")
	f.StringVar(&flags.module, "module", "", "module to load")
	f.StringArrayVar(&flags.sysPaths, "sys_path", nil, "additional module search directory (repeatable)")
	f.BoolVar(&flags.verify, "verify-source-needed", false, "report whether the command needs an up-to-date source tree")
	f.BoolVar(&flags.list, "list-commands", false, "list the module's commands as JSON")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose diagnostics")
	f.DurationVar(&flags.timeout, "timeout", 0, "kill each subprocess after this duration (0 disables)")
	cmd.MarkFlagsMutuallyExclusive("config", "config_file")

	return cmd
}

func run(ctx context.Context, loader *module.Loader, flags hostFlags, args []string, stdout, stderr io.Writer) error {
	var opts []jobevent.Option
	if flags.timeout > 0 {
		opts = append(opts, jobevent.WithTimeout(flags.timeout))
	}

	d := &host.Dispatcher{
		Loader:  loader,
		Stdout:  stdout,
		Emitter: jobevent.NewEmitter(stdout, stderr, opts...),
	}
	err := d.Dispatch(ctx, host.Request{
		Module:             flags.module,
		SysPaths:           flags.sysPaths,
		Config:             flags.config,
		ConfigFile:         flags.configFile,
		ListCommands:       flags.list,
		VerifySourceNeeded: flags.verify,
		Args:               args,
	})
	if err == nil {
		return nil
	}

	if usage, ok := helpRequested(err); ok {
		fmt.Fprintln(stdout, usage)
		return nil
	}

	if flags.verbose {
		renderErrorDetails(stderr, err)
	}
	return newExitError(err)
}

// installLogger routes slog through a charm logger on stderr.
func installLogger(stderr io.Writer, verbose bool) {
	logger := log.NewWithOptions(stderr, log.Options{
		Prefix:          "sthost",
		ReportTimestamp: true,
		Level:           log.WarnLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
}

// Run executes sthost with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(newLoader(), stdout, stderr)
	root.SetArgs(args)

	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	return exitCode(err)
}

// Execute runs sthost with the process arguments and exits.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func helpRequested(err error) (string, bool) {
	if !errors.Is(err, pflag.ErrHelp) {
		return "", false
	}
	var argErr *binder.ArgumentError
	if errors.As(err, &argErr) {
		return argErr.Usage, true
	}
	return "", true
}
