// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/manifest"
	"github.com/stonesthrow/stonesthrow/internal/platform"
)

// ManifestExt is the extension of module manifest files.
const ManifestExt = ".cue"

// ErrModuleNotFound is the sentinel error wrapped by NotFoundError.
var ErrModuleNotFound = errors.New("module not found")

type (
	// Loader resolves module names. It is immutable; Extend returns a copy.
	Loader struct {
		builtins    map[string]Factory
		searchPaths []string
	}

	// LoaderOption configures a Loader.
	LoaderOption func(*Loader)

	// NotFoundError is returned when a name resolves to no module.
	NotFoundError struct {
		Name        string
		SearchPaths []string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.SearchPaths) == 0 {
		return fmt.Sprintf("module %q not found", e.Name)
	}
	return fmt.Sprintf("module %q not found (searched %s)", e.Name, strings.Join(e.SearchPaths, ", "))
}

// Unwrap returns ErrModuleNotFound for errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrModuleNotFound }

// WithBuiltin registers a module compiled into the binary.
func WithBuiltin(name string, f Factory) LoaderOption {
	return func(l *Loader) {
		l.builtins[name] = f
	}
}

// WithSearchPaths appends directories searched for manifests.
func WithSearchPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.searchPaths = append(l.searchPaths, paths...)
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{builtins: make(map[string]Factory)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Extend returns a copy of the loader with paths appended to the search path.
func (l *Loader) Extend(paths ...string) *Loader {
	return &Loader{
		builtins:    maps.Clone(l.builtins),
		searchPaths: append(slices.Clone(l.searchPaths), paths...),
	}
}

// Builtins returns the names of the built-in modules, sorted.
func (l *Loader) Builtins() []string {
	return slices.Sorted(maps.Keys(l.builtins))
}

// SearchPaths returns the manifest search path in lookup order.
func (l *Loader) SearchPaths() []string {
	return slices.Clone(l.searchPaths)
}

// Load resolves name: built-ins first, then for each search path
// <dir>/<name>.cue and <dir>/<name>/module.cue.
func (l *Loader) Load(name string, env Env) (Module, error) {
	notFound := &NotFoundError{Name: name, SearchPaths: l.SearchPaths()}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || platform.IsWindowsReservedName(name) {
		return nil, notFound
	}

	if f, ok := l.builtins[name]; ok {
		slog.Debug("loading built-in module", "module", name)
		return f(env)
	}

	for _, dir := range l.searchPaths {
		for _, candidate := range []string{
			filepath.Join(dir, name+ManifestExt),
			filepath.Join(dir, name, "module"+ManifestExt),
		} {
			if !isFile(candidate) {
				continue
			}
			slog.Debug("loading module manifest", "module", name, "path", candidate)
			m, err := manifest.Parse(candidate)
			if err != nil {
				return nil, err
			}
			reg, err := m.Registry(env.Emitter)
			if err != nil {
				return nil, fmt.Errorf("module %s: %w", candidate, err)
			}
			return FromRegistry(name, reg), nil
		}
	}
	return nil, notFound
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
