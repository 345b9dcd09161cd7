// Package exec provides command execution utilities for startpage
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Result holds the result of a command execution
type Result struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Err      error
}

// Options configures command execution
type Options struct {
	Dir     string
	Env     []string
	Timeout time.Duration
	// WaitDelay bounds how long output is collected once the process exits or the timeout fires.
	// Children left running in the background (a browser started by xdg-open) hold the pipes open.
	WaitDelay time.Duration
	Stdin     io.Reader
	Logger    *log.Logger
}

// DefaultOptions returns default execution options
func DefaultOptions() Options {
	return Options{
		Timeout:   30 * time.Second,
		WaitDelay: 500 * time.Millisecond,
	}
}

// Run executes a command and returns the result
func Run(ctx context.Context, name string, args []string, opts Options) *Result {
	start := time.Now()

	result := &Result{
		Command: name,
		Args:    args,
	}

	// Apply timeout
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = opts.WaitDelay

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if opts.Logger != nil {
		opts.Logger.Debug("executing command", "cmd", name, "args", args)
	}

	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// exited cleanly, a detached child still held stdout or stderr
		err = nil
	}
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		result.Err = err
	}

	if opts.Logger != nil {
		if err != nil {
			opts.Logger.Debug("command failed",
				"cmd", name,
				"exit_code", result.ExitCode,
				"duration", result.Duration,
			)
		} else {
			opts.Logger.Debug("command succeeded",
				"cmd", name,
				"duration", result.Duration,
			)
		}
	}

	return result
}

// Error returns a descriptive error for a failed result, or nil
func (r *Result) Error() error {
	if r == nil || r.Err == nil {
		return nil
	}
	msg := strings.TrimSpace(LastNLines(r.Stderr, 3))
	if msg == "" {
		return fmt.Errorf("%s: %w", FormatCommand(r.Command, r.Args), r.Err)
	}
	return fmt.Errorf("%s: %w: %s", FormatCommand(r.Command, r.Args), r.Err, msg)
}

// CheckCommand checks if a command is available
func CheckCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// FormatCommand formats a command for display
func FormatCommand(name string, args []string) string {
	parts := append([]string{name}, args...)
	return strings.Join(parts, " ")
}

// LastNLines returns the last n lines of a string
func LastNLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
