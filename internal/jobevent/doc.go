// SPDX-License-Identifier: MPL-2.0

// Package jobevent implements the control-line protocol that makes subprocess
// activity observable to a remote reader sharing the host's standard output.
//
// Every event is written as one line of the form
//
//	@@@J:<json>@@@
//
// preceded by a blank line. The JSON object has exactly one top-level key naming
// the event kind: begin_command_event, end_command_event or log_event.
// Anything else on the stream is opaque subprocess output.
//
// The Emitter is the writer side; Scanner and ParseControlLine are the reader side.
package jobevent
