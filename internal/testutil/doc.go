// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include file setup (MustWriteFile, MustMkdirAll), fake tools
// (WriteExecutable) and platform guards (SkipWithoutShell).
package testutil
