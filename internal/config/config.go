// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/stonesthrow/stonesthrow/internal/issue"
	"github.com/stonesthrow/stonesthrow/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// LiteralSource names a configuration passed inline with --config.
const LiteralSource = "--config"

//go:embed config_schema.cue
var configSchema string

// Config is the decoded configuration blob.
type Config struct {
	SourcePath     string `mapstructure:"source_path" json:"source_path,omitempty"`
	BuildPath      string `mapstructure:"build_path" json:"build_path,omitempty"`
	PlatformName   string `mapstructure:"platform_name" json:"platform_name,omitempty"`
	RepositoryName string `mapstructure:"repository_name" json:"repository_name,omitempty"`
	GomaPath       string `mapstructure:"goma_path" json:"goma_path,omitempty"`
	MaxBuildJobs   int    `mapstructure:"max_build_jobs" json:"max_build_jobs,omitempty"`
	Out            string `mapstructure:"out" json:"out,omitempty"`
	MbConfig       string `mapstructure:"mb_config" json:"mb_config,omitempty"`

	// Extra holds every top-level key without a typed field. Keys are
	// lower-cased; values are kept as decoded.
	Extra map[string]any `mapstructure:"-" json:"-"`

	// Source is the file path the configuration was read from, or LiteralSource.
	Source string `mapstructure:"-" json:"-"`

	present map[string]bool
}

// Has reports whether key was present in the blob. Keys are case-insensitive.
func (c *Config) Has(key string) bool {
	return c != nil && c.present[strings.ToLower(key)]
}

// Keys returns the top-level keys present in the blob, lower-cased and sorted.
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(c.present))
}

// Value returns the value of key if it was present in the blob, reading
// well-known keys from their typed fields.
func (c *Config) Value(key string) (any, bool) {
	key = strings.ToLower(key)
	if !c.Has(key) {
		return nil, false
	}
	switch key {
	case "source_path":
		return c.SourcePath, true
	case "build_path":
		return c.BuildPath, true
	case "platform_name":
		return c.PlatformName, true
	case "repository_name":
		return c.RepositoryName, true
	case "goma_path":
		return c.GomaPath, true
	case "max_build_jobs":
		return c.MaxBuildJobs, true
	case "out":
		return c.Out, true
	case "mb_config":
		return c.MbConfig, true
	default:
		v, ok := c.Extra[key]
		return v, ok
	}
}

// Resolve loads the configuration selected by the host flags. Exactly one of
// literal and path may be set.
func Resolve(literal, path string) (*Config, error) {
	switch {
	case literal != "" && path != "":
		return nil, ErrConflictingConfiguration
	case literal != "":
		return Parse(literal)
	case path != "":
		return Load(path)
	default:
		return nil, ErrMissingConfiguration
	}
}

// Parse decodes a JSON object literal. Comments and trailing commas are tolerated.
func Parse(literal string) (*Config, error) {
	m, err := decodeJSON([]byte(literal))
	if err != nil {
		return nil, invalid(LiteralSource, err, "Pass a single JSON object, e.g. --config '{\"out\": \"out/Default\"}'")
	}
	return fromMap(m, LiteralSource)
}

// Load reads a configuration file, choosing the decoder by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithIssue(issue.InvalidConfigurationId).
			Wrap(err).
			BuildError()
	}

	var m map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		m, err = cueutil.DecodeMap(configSchema, data, "#Config",
			cueutil.WithFilename(path), cueutil.WithConcrete(true))
	case ".toml":
		err = toml.Unmarshal(data, &m)
	case ".yaml", ".yml":
		m, err = decodeYAML(data)
	default:
		m, err = decodeJSON(data)
	}
	if err != nil {
		return nil, invalid(path, err, "Check that the file holds a single object in the format its extension names")
	}
	return fromMap(m, path)
}

func decodeJSON(data []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(jsonc.ToJSON(data), &v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %s", describe(v))
	}
	return m, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be a mapping, got %s", describe(v))
	}
	return m, nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}

// wellKnownKeys are the keys decoded into typed fields.
var wellKnownKeys = []string{
	"source_path", "build_path", "platform_name", "repository_name",
	"goma_path", "max_build_jobs", "out", "mb_config",
}

// fromMap decodes the well-known keys through Viper into the typed fields and
// keeps every other top-level key in Extra. Only top-level keys are
// lower-cased; values, nested keys and dotted keys are kept as decoded.
func fromMap(m map[string]any, source string) (*Config, error) {
	cfg := &Config{
		Extra:   make(map[string]any),
		Source:  source,
		present: make(map[string]bool, len(m)),
	}

	typed := make(map[string]any)
	for _, k := range slices.Sorted(maps.Keys(m)) {
		key := strings.ToLower(k)
		cfg.present[key] = true
		if slices.Contains(wellKnownKeys, key) {
			typed[key] = m[k]
			continue
		}
		cfg.Extra[key] = m[k]
	}

	v := viper.New()
	if err := v.MergeConfigMap(typed); err != nil {
		return nil, invalid(source, err, "")
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, invalid(source, err, "Check the types of the well-known keys (max_build_jobs is an integer, the others are strings)")
	}
	return cfg, nil
}

func invalid(source string, err error, suggestion string) error {
	ctx := issue.NewErrorContext().
		WithOperation("parse configuration").
		WithIssue(issue.InvalidConfigurationId)
	if suggestion != "" {
		ctx = ctx.WithSuggestion(suggestion)
	}
	return ctx.Wrap(&InvalidConfigurationError{Source: source, Err: err}).BuildError()
}
