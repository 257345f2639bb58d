// SPDX-License-Identifier: MPL-2.0

// Package chromium is the built-in module for Chromium checkouts. Its
// commands wrap ninja, mb and git; every launch goes through the job event
// emitter so a remote reader sees each external command start and finish.
package chromium
