// SPDX-License-Identifier: MPL-2.0

package jobevent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// waitDelay bounds how long Wait keeps copying output after the process is
// killed on cancellation.
const waitDelay = 5 * time.Second

type (
	// Emitter writes control lines to the output stream and brackets every
	// subprocess it launches with a begin and an end event.
	Emitter struct {
		mu      sync.Mutex
		out     io.Writer
		stderr  io.Writer
		timeout time.Duration
		env     []string
	}

	// Option configures an Emitter.
	Option func(*Emitter)

	flusher interface {
		Flush() error
	}

	// lockedWriter routes subprocess output through the emitter's lock so it
	// can never land in the middle of a control line.
	lockedWriter struct {
		e *Emitter
	}
)

// WithTimeout bounds every launched process. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Emitter) {
		e.timeout = d
	}
}

// WithEnv appends KEY=VALUE entries to the inherited environment of launched processes.
func WithEnv(env ...string) Option {
	return func(e *Emitter) {
		e.env = append(e.env, env...)
	}
}

// NewEmitter creates an Emitter writing events and passed-through output to
// stdout and subprocess diagnostics to stderr. A nil stderr means os.Stderr.
func NewEmitter(stdout, stderr io.Writer, opts ...Option) *Emitter {
	if stderr == nil {
		stderr = os.Stderr
	}
	e := &Emitter{out: stdout, stderr: stderr}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit writes one event as a single control line and flushes the stream.
func (e *Emitter) Emit(ev *JobEvent) error {
	line, err := ev.ControlLine()
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.out.Write(line); err != nil {
		return fmt.Errorf("write %s: %w", ev.Kind(), err)
	}
	if f, ok := e.out.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", ev.Kind(), err)
		}
	}
	return nil
}

// Log emits a log event. Log events never alter control flow; the returned
// error only reports a failure to write the stream.
func (e *Emitter) Log(sev Severity, msg string) error {
	return e.Emit(&JobEvent{LogEvent: &LogEvent{Msg: msg, Severity: sev}})
}

// Debugf emits a debug log event.
func (e *Emitter) Debugf(format string, args ...any) { e.logf(SeverityDebug, format, args...) }

// Infof emits an info log event.
func (e *Emitter) Infof(format string, args ...any) { e.logf(SeverityInfo, format, args...) }

// Errorf emits an error log event.
func (e *Emitter) Errorf(format string, args ...any) { e.logf(SeverityError, format, args...) }

func (e *Emitter) logf(sev Severity, format string, args ...any) {
	if err := e.Log(sev, fmt.Sprintf(format, args...)); err != nil {
		slog.Warn("failed to emit log event", "severity", sev.String(), "error", err)
	}
}

// RunChecked runs argv in dir and returns its standard output with surrounding
// whitespace trimmed, including whatever a failing process printed before it
// exited. Standard error is passed through.
func (e *Emitter) RunChecked(ctx context.Context, dir string, argv ...string) (string, error) {
	var out bytes.Buffer
	err := e.execute(ctx, dir, &out, argv)
	return strings.TrimSpace(out.String()), err
}

// Run runs argv in dir with its standard output passed through to the stream.
func (e *Emitter) Run(ctx context.Context, dir string, argv ...string) error {
	return e.execute(ctx, dir, e.passthrough(), argv)
}

func (e *Emitter) passthrough() io.Writer {
	if f, ok := e.out.(*os.File); ok {
		return f
	}
	return lockedWriter{e: e}
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.e.mu.Lock()
	defer w.e.mu.Unlock()
	return w.e.out.Write(p)
}

func (e *Emitter) execute(ctx context.Context, dir string, stdout io.Writer, argv []string) (err error) {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}
	argv = append([]string(nil), argv...)
	dir = resolveDir(dir)

	if err := e.Emit(&JobEvent{BeginCommandEvent: &BeginCommandEvent{
		Command: &ShellCommand{Command: argv, Directory: dir},
	}}); err != nil {
		return err
	}

	returnCode := 1
	defer func() {
		endErr := e.Emit(&JobEvent{EndCommandEvent: &EndCommandEvent{ReturnCode: returnCode}})
		if err == nil {
			err = endErr
		}
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	slog.Debug("launching command", "argv", argv, "dir", dir)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = e.stderr
	cmd.WaitDelay = waitDelay
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}

	if startErr := cmd.Start(); startErr != nil {
		return &LaunchError{Argv: argv, Err: startErr}
	}

	waitErr := cmd.Wait()
	if waitErr == nil {
		returnCode = 0
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return fmt.Errorf("wait for %s: %w", argv[0], waitErr)
	}
	returnCode = exitErr.ExitCode()
	failed := &ExitError{Argv: argv, ReturnCode: returnCode}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", failed, ctxErr)
	}
	return failed
}

// resolveDir returns an absolute working directory, defaulting to the
// process working directory.
func resolveDir(dir string) string {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
