// SPDX-License-Identifier: MPL-2.0

// Package module defines what the host needs from a module and resolves
// module names to modules: built-ins registered with the Loader first, then
// CUE manifests found on the search paths.
package module
