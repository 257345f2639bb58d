// SPDX-License-Identifier: MPL-2.0

// Package manifest loads modules declared in CUE files. A manifest lists
// commands with their arguments and a shell-like command line; running a
// command expands the line into an argument vector and launches it through
// the job event emitter.
//
//	description: "Chromium helpers"
//	commands: [{
//		name:         "gn-args"
//		doc:          "Show the gn args of the build directory"
//		needs_source: true
//		args: [{name: "list", action: "store_true", help: "list all args"}]
//		run: "gn args $BUILD_PATH ${LIST:+--list}"
//	}]
package manifest
