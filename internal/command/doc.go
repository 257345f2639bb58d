// SPDX-License-Identifier: MPL-2.0

// Package command is the command registry of a module.
//
// A module describes each sub-command once, with a fluent Spec:
//
//	spec := command.New("build").
//		Doc("Build specified targets").
//		NeedsSource().
//		Flag("verbose", "v", "print each tool invocation").
//		Remainder("targets", "targets to build").
//		Handler(build)
//
// Spec.Build validates the declaration and produces a Descriptor. A Registry
// keeps descriptors by name in registration order; listing them never runs a
// handler. Options is the bound, per-invocation view handed to a handler.
package command
