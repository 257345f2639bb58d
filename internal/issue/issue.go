// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ModuleNotFoundId Id = iota + 1
	MissingConfigurationId
	ConflictingConfigurationId
	InvalidConfigurationId
	ArgumentErrorId
	InvalidCommandId
	UnknownCommandId
	ManifestParseErrorId
	LaunchFailureId
	CommandFailedId
)

type (
	Id int

	MarkdownMsg string

	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue Markdown with the given glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

The module passed with ` + "`--module`" + ` is neither built in nor present on a search path.

## Search order
1. Built-in modules (e.g. ` + "`chromium`" + `)
2. Each ` + "`--sys_path`" + ` entry, in the order given:
   ` + "`<dir>/<module>.cue`" + ` then ` + "`<dir>/<module>/module.cue`" + `

## Things you can try
- Check the module name for typos
- Pass the directory that holds the module manifest:
~~~
$ sthost --sys_path ./scripts --module mymodule --list-commands
~~~`,
	}

	missingConfigurationIssue = &Issue{
		id: MissingConfigurationId,
		mdMsg: `
# No configuration given!

Running a command requires a configuration object.

## Things you can try
- Pass it inline:
~~~
$ sthost --module chromium --config '{"source_path": "/src", "build_path": "/src/out/Debug"}' build chrome
~~~
- Or from a file (JSON, CUE, TOML or YAML):
~~~
$ sthost --module chromium --config_file platform.json build chrome
~~~`,
	}

	conflictingConfigurationIssue = &Issue{
		id: ConflictingConfigurationId,
		mdMsg: `
# Conflicting configuration flags!

` + "`--config`" + ` and ` + "`--config_file`" + ` are mutually exclusive. Pass exactly one.`,
	}

	invalidConfigurationIssue = &Issue{
		id: InvalidConfigurationId,
		mdMsg: `
# Invalid configuration!

The configuration must be a single object. Inline configuration is JSON
(comments and trailing commas are tolerated); files are decoded by extension:
` + "`.json`, `.jsonc`, `.cue`, `.toml`, `.yaml`" + `.`,
	}

	argumentErrorIssue = &Issue{
		id: ArgumentErrorId,
		mdMsg: `
# Invalid arguments!

A flag was unknown, malformed or missing its value.

## Things you can try
- List the commands a module offers and their usage:
~~~
$ sthost --module chromium --list-commands
~~~`,
	}

	invalidCommandIssue = &Issue{
		id: InvalidCommandId,
		mdMsg: `
# No command selected!

Name the command to run after the host flags:
~~~
$ sthost --module chromium --config_file platform.json build chrome
~~~`,
	}

	unknownCommandIssue = &Issue{
		id: UnknownCommandId,
		mdMsg: `
# Unknown command!

The module has no command with that name. Use ` + "`--list-commands`" + ` to see what it offers.`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse module manifest!

The module manifest is not valid CUE or does not match the #Module schema.

## Example
~~~cue
description: "Build helpers"
commands: [
  {
    name:         "build"
    doc:          "Build specified targets"
    needs_source: true
    args: [{name: "targets", action: "remainder", help: "targets to build"}]
    run: "ninja -C $BUILD_PATH $TARGETS"
  },
]
~~~`,
	}

	launchFailureIssue = &Issue{
		id: LaunchFailureId,
		mdMsg: `
# Failed to start a process!

An external tool could not be started. Make sure it is installed and on ` + "`PATH`" + `
for the account running the host.`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# External command failed!

A tool exited with a non-zero status. Its return code was reported in the
end_command_event and is used as the host exit status.`,
	}

	issues = map[Id]*Issue{
		moduleNotFoundIssue.Id():           moduleNotFoundIssue,
		missingConfigurationIssue.Id():     missingConfigurationIssue,
		conflictingConfigurationIssue.Id(): conflictingConfigurationIssue,
		invalidConfigurationIssue.Id():     invalidConfigurationIssue,
		argumentErrorIssue.Id():            argumentErrorIssue,
		invalidCommandIssue.Id():           invalidCommandIssue,
		unknownCommandIssue.Id():           unknownCommandIssue,
		manifestParseErrorIssue.Id():       manifestParseErrorIssue,
		launchFailureIssue.Id():            launchFailureIssue,
		commandFailedIssue.Id():            commandFailedIssue,
	}
)

// Values returns all catalog entries ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
