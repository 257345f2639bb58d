// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalogComplete(t *testing.T) {
	t.Parallel()

	ids := []Id{
		ModuleNotFoundId,
		MissingConfigurationId,
		ConflictingConfigurationId,
		InvalidConfigurationId,
		ArgumentErrorId,
		InvalidCommandId,
		UnknownCommandId,
		ManifestParseErrorId,
		LaunchFailureId,
		CommandFailedId,
	}

	if ModuleNotFoundId != 1 {
		t.Errorf("ModuleNotFoundId = %d, want 1", ModuleNotFoundId)
	}

	for _, id := range ids {
		entry := Get(id)
		if entry == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if entry.Id() != id {
			t.Errorf("entry.Id() = %d, want %d", entry.Id(), id)
		}
		if strings.TrimSpace(string(entry.MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", id)
		}
	}

	values := Values()
	if len(values) != len(ids) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(ids))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered at %d", i)
		}
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(ModuleNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "Module not found") {
		t.Errorf("rendered output missing heading:\n%s", out)
	}
}

