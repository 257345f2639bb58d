// SPDX-License-Identifier: MPL-2.0

package jobevent

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// SeverityError marks a log event reporting a failure.
	SeverityError Severity = 0
	// SeverityInfo marks a progress message.
	SeverityInfo Severity = 1
	// SeverityDebug marks a diagnostic message.
	SeverityDebug Severity = 2
)

const (
	// controlPrefix opens a control line. "J" is the only signal defined.
	controlPrefix = "@@@J:"
	// controlSuffix closes a control line.
	controlSuffix = "@@@"
)

type (
	// Severity is the numeric log level carried on the wire.
	Severity int

	// ShellCommand is the command vector and working directory of a launch.
	ShellCommand struct {
		Command   []string `json:"command"`
		Directory string   `json:"directory"`
	}

	// BeginCommandEvent is emitted immediately before a process is launched.
	BeginCommandEvent struct {
		Command *ShellCommand `json:"command"`
	}

	// EndCommandEvent is emitted once the process has exited or failed to start.
	EndCommandEvent struct {
		ReturnCode int `json:"return_code"`
	}

	// LogEvent carries an advisory message.
	LogEvent struct {
		Msg      string   `json:"msg"`
		Severity Severity `json:"severity"`
	}

	// JobEvent is the envelope of one control line. Exactly one field is set.
	JobEvent struct {
		BeginCommandEvent *BeginCommandEvent `json:"begin_command_event,omitempty"`
		EndCommandEvent   *EndCommandEvent   `json:"end_command_event,omitempty"`
		LogEvent          *LogEvent          `json:"log_event,omitempty"`
	}
)

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "info"
	case SeverityDebug:
		return "debug"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Kind names the populated event field, or "" for an empty envelope.
func (e *JobEvent) Kind() string {
	switch {
	case e.BeginCommandEvent != nil:
		return "begin_command_event"
	case e.EndCommandEvent != nil:
		return "end_command_event"
	case e.LogEvent != nil:
		return "log_event"
	default:
		return ""
	}
}

func (e *JobEvent) count() int {
	n := 0
	if e.BeginCommandEvent != nil {
		n++
	}
	if e.EndCommandEvent != nil {
		n++
	}
	if e.LogEvent != nil {
		n++
	}
	return n
}

// ControlLine renders the event as a complete control line: a leading newline,
// the sentinel-wrapped JSON and a trailing newline.
func (e *JobEvent) ControlLine() ([]byte, error) {
	if e.count() != 1 {
		return nil, fmt.Errorf("%w: event must carry exactly one payload", ErrMalformedEvent)
	}

	var buf bytes.Buffer
	buf.WriteString("\n" + controlPrefix)
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	// Encode terminates with a newline; the suffix belongs on the same line.
	buf.Truncate(buf.Len() - 1)
	buf.WriteString(controlSuffix + "\n")
	return buf.Bytes(), nil
}
