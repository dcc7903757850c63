package adb

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single adb invocation when none is configured.
const DefaultTimeout = 30 * time.Second

// waitDelay bounds how long Run waits for output pipes to close once adb has
// been killed. A forked adb server can keep them open indefinitely.
const waitDelay = 2 * time.Second

// Runner invokes adb with the given arguments and returns its output.
// A failed invocation returns a *CommandError; output text is never used
// to signal failure.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// Failure kinds carried by CommandError. They match with errors.Is.
var (
	ErrNotInstalled = errors.New("adb not installed")
	ErrExit         = errors.New("adb exited with error")
	ErrTimeout      = errors.New("adb timed out")
)

// CommandError describes a failed adb invocation.
type CommandError struct {
	Kind   error
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("adb %s: %v", strings.Join(e.Args, " "), e.Kind)
	if e.Err != nil && e.Err != e.Kind {
		msg += ": " + e.Err.Error()
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ExecRunner runs the adb binary found at Path.
type ExecRunner struct {
	Path    string
	Timeout time.Duration
}

// NewExecRunner creates a runner for the adb binary at path ("adb" when empty).
func NewExecRunner(path string, timeout time.Duration) *ExecRunner {
	if path == "" {
		path = "adb"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ExecRunner{Path: path, Timeout: timeout}
}

// Run executes adb and returns its combined output. A zero Path or Timeout
// falls back to "adb" and DefaultTimeout.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	path := r.Path
	if path == "" {
		path = "adb"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, err := exec.LookPath(path); err != nil {
		return "", &CommandError{Kind: ErrNotInstalled, Args: args, Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return string(out), &CommandError{Kind: ErrTimeout, Args: args, Output: string(out), Err: ctx.Err()}
		}
		return string(out), &CommandError{Kind: ErrExit, Args: args, Output: string(out), Err: err}
	}
	return string(out), nil
}
