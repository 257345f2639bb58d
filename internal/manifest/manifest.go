// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/command"
	"github.com/stonesthrow/stonesthrow/internal/jobevent"
	"github.com/stonesthrow/stonesthrow/pkg/cueutil"

	"mvdan.cc/sh/v3/shell"
)

//go:embed module_schema.cue
var moduleSchema string

// MaxSize is the largest manifest file accepted.
const MaxSize int64 = 1 << 20

// ErrManifest is the sentinel error wrapped by ParseError.
var ErrManifest = errors.New("invalid module manifest")

type (
	// Manifest is the decoded content of a module file.
	Manifest struct {
		Description string    `json:"description"`
		Commands    []Command `json:"commands"`
	}

	// Command is one command declared in a manifest.
	Command struct {
		Name        string     `json:"name"`
		Doc         string     `json:"doc"`
		NeedsSource bool       `json:"needs_source"`
		Hidden      bool       `json:"hidden"`
		Args        []Argument `json:"args"`
		Run         string     `json:"run"`
		Dir         string     `json:"dir,omitempty"`
	}

	// Argument is one argument declared by a manifest command.
	Argument struct {
		Name    string `json:"name"`
		Short   string `json:"short,omitempty"`
		Action  string `json:"action"`
		Default string `json:"default,omitempty"`
		Metavar string `json:"metavar,omitempty"`
		Help    string `json:"help"`
	}

	// ParseError reports a manifest that could not be read or validated.
	ParseError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("module manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the cause.
func (e *ParseError) Unwrap() []error { return []error{ErrManifest, e.Err} }

// Parse reads and validates the manifest at path.
func Parse(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return ParseBytes(data, path)
}

// ParseBytes validates manifest content against the #Module schema.
func ParseBytes(data []byte, path string) (*Manifest, error) {
	result, err := cueutil.ParseAndDecodeString[Manifest](moduleSchema, data, "#Module",
		cueutil.WithFilename(path), cueutil.WithMaxFileSize(MaxSize))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return result.Value, nil
}

// Registry builds a command registry whose handlers launch each command line
// through em.
func (m *Manifest) Registry(em *jobevent.Emitter) (*command.Registry, error) {
	reg := command.NewRegistry()
	for i := range m.Commands {
		c := &m.Commands[i]
		spec := command.New(c.Name).Doc(c.Doc).Handler(c.handler(em))
		if c.NeedsSource {
			spec.NeedsSource()
		}
		if c.Hidden {
			spec.Hidden()
		}
		for _, a := range c.Args {
			spec.Arg(a.argument())
		}
		if err := reg.Add(spec); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (a Argument) argument() command.Argument {
	arg := command.Argument{
		Short:   a.Short,
		Action:  command.Action(a.Action),
		Default: a.Default,
		Metavar: a.Metavar,
		Help:    a.Help,
	}
	if arg.Action == command.ActionRemainder {
		arg.Dest = command.DestFor(a.Name)
	} else {
		arg.Long = a.Name
		arg.Dest = command.DestFor(a.Name)
	}
	return arg
}

func (c *Command) handler(em *jobevent.Emitter) command.Handler {
	return func(ctx context.Context, opts *command.Options) error {
		env := Environ(opts)

		argv, err := shell.Fields(c.Run, env)
		if err != nil {
			return fmt.Errorf("expand command line of %s: %w", c.Name, err)
		}
		if len(argv) == 0 {
			return fmt.Errorf("%s: %w", c.Name, jobevent.ErrEmptyCommand)
		}

		dir := opts.SourcePath
		if c.Dir != "" {
			if dir, err = shell.Expand(c.Dir, env); err != nil {
				return fmt.Errorf("expand directory of %s: %w", c.Name, err)
			}
		}

		em.Debugf("%s: %s", c.Name, strings.Join(argv, " "))
		return em.Run(ctx, dir, argv...)
	}
}

// Environ returns the variable lookup used to expand command lines: the
// environment fields, then bound arguments and configuration extras under
// their upper-cased names, then the process environment.
func Environ(opts *command.Options) func(string) string {
	vars := map[string]string{
		"SOURCE_PATH":     opts.SourcePath,
		"BUILD_PATH":      opts.BuildPath,
		"PLATFORM_NAME":   opts.PlatformName,
		"REPOSITORY_NAME": opts.RepositoryName,
	}
	for k, v := range opts.Extra {
		if s, ok := variable(v); ok {
			vars[strings.ToUpper(k)] = s
		}
	}
	for _, dest := range opts.Dests() {
		v, _ := opts.Value(dest)
		if s, ok := variable(v); ok {
			vars[strings.ToUpper(dest)] = s
		}
	}

	return func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return os.Getenv(name)
	}
}

func variable(v any) (string, bool) {
	switch v := v.(type) {
	case bool:
		if v {
			return "true", true
		}
		return "", true
	case []string:
		return strings.Join(v, " "), true
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, " "), true
	case map[string]any, nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}
