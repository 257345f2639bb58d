// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/stonesthrow/stonesthrow/internal/binder"
	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/config"
	"github.com/stonesthrow/stonesthrow/internal/issue"
	"github.com/stonesthrow/stonesthrow/internal/jobevent"
	"github.com/stonesthrow/stonesthrow/internal/manifest"
	"github.com/stonesthrow/stonesthrow/internal/module"
)

// issueSentinels maps error kinds to their catalog entries. Order matters:
// the first match wins.
var issueSentinels = []struct {
	err error
	id  issue.Id
}{
	{module.ErrModuleNotFound, issue.ModuleNotFoundId},
	{manifest.ErrManifest, issue.ManifestParseErrorId},
	{config.ErrConflictingConfiguration, issue.ConflictingConfigurationId},
	{config.ErrMissingConfiguration, issue.MissingConfigurationId},
	{config.ErrInvalidConfiguration, issue.InvalidConfigurationId},
	{command.ErrUnknownCommand, issue.UnknownCommandId},
	{command.ErrInvalidCommand, issue.InvalidCommandId},
	{binder.ErrArgument, issue.ArgumentErrorId},
	{jobevent.ErrLaunchFailure, issue.LaunchFailureId},
	{jobevent.ErrCommandFailed, issue.CommandFailedId},
}

// issueFor returns the catalog entry id for err, or 0. An id carried by an
// ActionableError wins over the sentinel table.
func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}
	for _, s := range issueSentinels {
		if errors.Is(err, s.err) {
			return s.id
		}
	}
	return 0
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	if !verbose {
		return err.Error()
	}

	msg := err.Error()
	depth := 1
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		if depth == 1 {
			msg += "\n\nError chain:"
		}
		msg += fmt.Sprintf("\n  %d. %s", depth, cause.Error())
		depth++
	}
	return msg
}

// renderErrorDetails prints the full error chain, the usage of the parser
// that rejected an argument, and the catalog help for the error kind.
func renderErrorDetails(stderr io.Writer, err error) {
	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+VerboseStyle.Render(formatErrorForDisplay(err, true)))

	var argErr *binder.ArgumentError
	if errors.As(err, &argErr) && argErr.Usage != "" {
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, argErr.Usage)
	}

	id := issueFor(err)
	if id == 0 {
		return
	}
	if entry := issue.Get(id); entry != nil {
		rendered, renderErr := entry.Render("notty")
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}
