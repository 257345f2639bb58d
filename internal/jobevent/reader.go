// SPDX-License-Identifier: MPL-2.0

package jobevent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single line read by Scanner.
const maxLineSize = 1024 * 1024

// Scanner splits a stream into control events and opaque output lines.
type Scanner struct {
	s       *bufio.Scanner
	event   *JobEvent
	text    string
	lineErr error
}

// IsControlLine reports whether line is framed by the control sentinels.
func IsControlLine(line string) bool {
	return len(line) >= 2*len(controlSuffix) &&
		strings.HasPrefix(line, controlSuffix) &&
		strings.HasSuffix(line, controlSuffix)
}

// ParseControlLine decodes a control line without its trailing newline.
func ParseControlLine(line string) (*JobEvent, error) {
	if !IsControlLine(line) {
		return nil, fmt.Errorf("%w: missing sentinels", ErrMalformedEvent)
	}
	body := strings.TrimSuffix(strings.TrimPrefix(line, controlSuffix), controlSuffix)

	signal, payload, ok := strings.Cut(body, ":")
	if !ok {
		return nil, fmt.Errorf("%w: no signal separator", ErrMalformedEvent)
	}
	if signal != "J" {
		return nil, fmt.Errorf("%w: unsupported signal %q", ErrMalformedEvent, signal)
	}

	ev := &JobEvent{}
	if err := json.Unmarshal([]byte(payload), ev); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if ev.count() != 1 {
		return nil, fmt.Errorf("%w: expected exactly one event kind", ErrMalformedEvent)
	}
	return ev, nil
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{s: s}
}

// Scan advances to the next line. It returns false at the end of the stream
// or on a read error.
func (s *Scanner) Scan() bool {
	s.event, s.lineErr = nil, nil
	if !s.s.Scan() {
		return false
	}
	s.text = s.s.Text()
	if IsControlLine(s.text) {
		s.event, s.lineErr = ParseControlLine(s.text)
	}
	return true
}

// Event returns the decoded event of the current line, or nil for output lines
// and malformed control lines.
func (s *Scanner) Event() *JobEvent { return s.event }

// Text returns the raw current line.
func (s *Scanner) Text() string { return s.text }

// LineErr reports why the current control line could not be decoded.
func (s *Scanner) LineErr() error { return s.lineErr }

// Err returns the first read error encountered.
func (s *Scanner) Err() error { return s.s.Err() }

// Collect reads r to the end and returns its events and output lines.
// Blank lines are dropped from the output, and the first malformed control
// line aborts the read.
func Collect(r io.Reader) ([]*JobEvent, []string, error) {
	var (
		events []*JobEvent
		lines  []string
	)
	sc := NewScanner(r)
	for sc.Scan() {
		if err := sc.LineErr(); err != nil {
			return events, lines, err
		}
		if ev := sc.Event(); ev != nil {
			events = append(events, ev)
			continue
		}
		if sc.Text() != "" {
			lines = append(lines, sc.Text())
		}
	}
	return events, lines, sc.Err()
}
