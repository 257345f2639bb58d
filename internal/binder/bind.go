// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"errors"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/command"

	"github.com/spf13/pflag"
)

// Bind parses args against the descriptor's arguments and returns new Options
// with the command selected, every flag bound (defaults included) and the
// remainder captured.
func Bind(d *command.Descriptor, args []string) (*command.Options, error) {
	fs := d.FlagSet()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &ArgumentError{Token: helpToken(args), Usage: d.Usage, Err: pflag.ErrHelp}
		}
		return nil, &ArgumentError{Token: offendingToken(err.Error(), args), Usage: d.Usage, Err: err}
	}

	rem := d.Remainder()
	if rem == nil && fs.NArg() > 0 {
		return nil, &ArgumentError{Token: fs.Arg(0), Usage: d.Usage, Err: errors.New("unexpected argument")}
	}

	opts := command.NewOptions()
	opts.Command = d.Name
	for _, a := range d.Arguments {
		switch a.Action {
		case command.ActionStoreTrue:
			v, err := fs.GetBool(a.Long)
			if err != nil {
				return nil, &ArgumentError{Token: "--" + a.Long, Usage: d.Usage, Err: err}
			}
			opts.Set(a.Dest, v)
		case command.ActionStore:
			v, err := fs.GetString(a.Long)
			if err != nil {
				return nil, &ArgumentError{Token: "--" + a.Long, Usage: d.Usage, Err: err}
			}
			opts.Set(a.Dest, v)
		case command.ActionRemainder:
			opts.Set(a.Dest, append([]string{}, fs.Args()...))
		}
	}
	return opts, nil
}

func helpToken(args []string) string {
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return a
		}
	}
	return "--help"
}

// offendingToken extracts the token named in a pflag error message, falling
// back to the first argument that starts with a dash.
func offendingToken(msg string, args []string) string {
	for _, prefix := range []string{"unknown flag: ", "unknown shorthand flag: ", "flag needs an argument: ", "bad flag syntax: "} {
		if rest, ok := strings.CutPrefix(msg, prefix); ok {
			// Shorthand errors read "'x' in -xyz".
			if _, tok, found := strings.Cut(rest, " in "); found {
				return tok
			}
			return rest
		}
	}
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}
