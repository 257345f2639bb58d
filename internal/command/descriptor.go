// SPDX-License-Identifier: MPL-2.0

package command

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// usageColumn is the width of the argument label column in usage text.
const usageColumn = 24

type (
	// Descriptor is the registered, immutable description of one command.
	Descriptor struct {
		Name        string
		Summary     string
		Usage       string
		NeedsSource bool
		Visible     bool
		Arguments   []Argument
		Handler     Handler
	}

	// Info is the listing view of a Descriptor.
	Info struct {
		Name        string `json:"name"`
		Summary     string `json:"summary"`
		Usage       string `json:"usage"`
		NeedsSource bool   `json:"needs_source"`
		Visible     bool   `json:"visible"`
	}
)

// Info returns the listing view of the descriptor.
func (d *Descriptor) Info() Info {
	return Info{
		Name:        d.Name,
		Summary:     d.Summary,
		Usage:       d.Usage,
		NeedsSource: d.NeedsSource,
		Visible:     d.Visible,
	}
}

// Remainder returns the remainder argument, or nil if none is declared.
func (d *Descriptor) Remainder() *Argument {
	for i := range d.Arguments {
		if d.Arguments[i].Action == ActionRemainder {
			return &d.Arguments[i]
		}
	}
	return nil
}

// FlagSet builds a fresh flag set for the descriptor's flags. Without a
// remainder, flags may appear anywhere; with one, flag parsing stops at the
// first positional token so everything after it is captured verbatim.
func (d *Descriptor) FlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(d.Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(d.Remainder() == nil)
	fs.SortFlags = false

	for _, a := range d.Arguments {
		switch a.Action {
		case ActionStoreTrue:
			def, _ := strconv.ParseBool(a.Default)
			fs.BoolP(a.Long, a.Short, def, a.Help)
		case ActionStore:
			fs.StringP(a.Long, a.Short, a.Default, a.Help)
		}
	}
	return fs
}

func renderUsage(rest string, args []Argument) string {
	var sb strings.Builder
	sb.WriteString(rest)

	if len(args) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("arguments:")
		for i := range args {
			label := "  " + args[i].label()
			sb.WriteString("\n")
			sb.WriteString(label)
			if args[i].Help == "" {
				continue
			}
			if len(label) < usageColumn {
				sb.WriteString(strings.Repeat(" ", usageColumn-len(label)))
			} else {
				sb.WriteString("\n" + strings.Repeat(" ", usageColumn))
			}
			sb.WriteString(args[i].Help)
			if args[i].Action == ActionStore && args[i].Default != "" {
				sb.WriteString(" (default " + strconv.Quote(args[i].Default) + ")")
			}
		}
	}
	return sb.String()
}
