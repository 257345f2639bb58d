// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	goruntime "runtime"
	"testing"
)

// SkipWithoutShell skips tests that launch /bin/sh or shell-script tools.
func SkipWithoutShell(t testing.TB) {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("skipping: requires a POSIX shell")
	}
}

// MustMkdirAll creates a directory along with any necessary parents.
// The test fails immediately if the operation fails.
func MustMkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

// MustWriteFile writes content to path, creating parent directories, and
// returns path. The test fails immediately if the write fails.
func MustWriteFile(t testing.TB, path, content string) string {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteExecutable writes a /bin/sh script named name into dir and returns
// its path.
func WriteExecutable(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
