// SPDX-License-Identifier: MPL-2.0

// Package binder turns the module-level argument list into command.Options.
//
// Binding happens in stages: the first token selects a command, the rest is
// parsed with a pflag set built from that command's descriptor, and finally
// the configuration blob is overlaid. Every stage builds new values and only
// hands them out when it succeeds.
package binder
