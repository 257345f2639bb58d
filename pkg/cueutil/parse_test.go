// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Target: {
	name:         string
	jobs:         int | *8
	needs_source: bool | *false
	note?:        string
}
`

type testTarget struct {
	Name        string `json:"name"`
	Jobs        int    `json:"jobs"`
	NeedsSource bool   `json:"needs_source"`
	Note        string `json:"note,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid document with defaults", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecodeString[testTarget](testSchema, []byte(`name: "chrome"`), "#Target")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.Name != "chrome" {
			t.Errorf("Name = %q, want %q", result.Value.Name, "chrome")
		}
		if result.Value.Jobs != 8 {
			t.Errorf("Jobs = %d, want default 8", result.Value.Jobs)
		}
		if result.Value.NeedsSource {
			t.Error("NeedsSource should default to false")
		}
	})

	t.Run("type mismatch reports the field path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testTarget](testSchema, []byte(`name: 42`), "#Target", WithFilename("targets.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "targets.cue") || !strings.Contains(err.Error(), "name") {
			t.Errorf("error should mention file and field, got: %v", err)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testTarget](testSchema, []byte(`name: "unterminated`), "#Target")
		if err == nil {
			t.Fatal("expected syntax error")
		}
	})

	t.Run("missing schema definition", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testTarget](testSchema, []byte(`name: "x"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "#Missing") {
			t.Errorf("expected missing definition error, got: %v", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[testTarget](testSchema, []byte(`name: "chrome"`), "#Target", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("expected size error, got: %v", err)
		}
	})
}

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	const schema = `
#Config: {
	source_path?: string
	max_build_jobs?: int
	...
}
`
	m, err := DecodeMap(schema, []byte(`source_path: "/src"
custom: "x"`), "#Config", WithConcrete(false))
	if err != nil {
		t.Fatalf("DecodeMap failed: %v", err)
	}
	if m["source_path"] != "/src" {
		t.Errorf("source_path = %v", m["source_path"])
	}
	if m["custom"] != "x" {
		t.Errorf("custom = %v", m["custom"])
	}

	if _, err := DecodeMap(schema, []byte(`max_build_jobs: "many"`), "#Config", WithConcrete(false)); err == nil {
		t.Error("expected schema violation")
	}
}
