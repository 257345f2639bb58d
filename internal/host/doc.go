// SPDX-License-Identifier: MPL-2.0

// Package host implements the script host's top-level control flow: load the
// requested module, then either list its commands, report whether a command
// needs a synchronized source tree, or run the command.
package host
