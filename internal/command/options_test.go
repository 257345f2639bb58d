// SPDX-License-Identifier: MPL-2.0

package command

import (
	"slices"
	"testing"
)

func TestOptionsAccessors(t *testing.T) {
	t.Parallel()

	opts := NewOptions()
	opts.Set("force", true)
	opts.Set("out", "out/Debug")
	opts.Set("targets", []string{"chrome", "content_shell"})
	opts.Set("max_build_jobs", 64)
	opts.Extra["goma"] = "on"

	if !opts.Bool("force") {
		t.Error("Bool(force) = false")
	}
	if opts.String("out") != "out/Debug" {
		t.Errorf("String(out) = %q", opts.String("out"))
	}
	if got := opts.Strings("targets"); !slices.Equal(got, []string{"chrome", "content_shell"}) {
		t.Errorf("Strings(targets) = %v", got)
	}
	if opts.Int("max_build_jobs") != 64 {
		t.Errorf("Int(max_build_jobs) = %d", opts.Int("max_build_jobs"))
	}
	if opts.String("goma") != "on" || !opts.Has("goma") {
		t.Error("Extra values should be visible through accessors")
	}
	if opts.Has("missing") || opts.Bool("missing") || opts.Strings("missing") != nil {
		t.Error("missing destinations should read as zero values")
	}
	if got := opts.Dests(); !slices.Equal(got, []string{"force", "max_build_jobs", "out", "targets"}) {
		t.Errorf("Dests() = %v", got)
	}
}

func TestOptionsZeroValue(t *testing.T) {
	t.Parallel()

	var opts Options
	opts.Set("force", "true")
	if !opts.Bool("force") {
		t.Error("zero-value Options should accept Set")
	}
}
