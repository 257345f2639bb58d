// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"errors"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/config"

	"github.com/spf13/pflag"
)

// Parser is the module-level parser: it selects a command from the registry,
// binds its arguments and overlays the configuration, if any.
type Parser struct {
	reg *command.Registry
	cfg *config.Config
}

// NewParser creates a Parser for the commands of reg. cfg may be nil.
func NewParser(reg *command.Registry, cfg *config.Config) *Parser {
	return &Parser{reg: reg, cfg: cfg}
}

// Parse binds args. An empty list yields Options with no command selected;
// handing those to a registry fails with command.ErrInvalidCommand.
func (p *Parser) Parse(args []string) (*command.Options, error) {
	if len(args) == 0 {
		opts := command.NewOptions()
		if err := Overlay(nil, opts, p.cfg); err != nil {
			return nil, err
		}
		return opts, nil
	}

	name := args[0]
	switch {
	case name == "-h" || name == "--help":
		return nil, &ArgumentError{Token: name, Usage: p.Usage(), Err: pflag.ErrHelp}
	case strings.HasPrefix(name, "-"):
		return nil, &ArgumentError{Token: name, Usage: p.Usage(), Err: errors.New("expected a command name")}
	}

	d, err := p.reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	opts, err := Bind(d, args[1:])
	if err != nil {
		return nil, err
	}
	if err := Overlay(d, opts, p.cfg); err != nil {
		return nil, err
	}
	return opts, nil
}

// Usage lists the visible commands with their summaries.
func (p *Parser) Usage() string {
	infos := p.reg.Infos()
	width := 0
	for _, info := range infos {
		width = max(width, len(info.Name))
	}

	var sb strings.Builder
	sb.WriteString("commands:")
	for _, info := range infos {
		sb.WriteString("\n  ")
		sb.WriteString(info.Name)
		sb.WriteString(strings.Repeat(" ", width-len(info.Name)+3))
		sb.WriteString(info.Summary)
	}
	return sb.String()
}
