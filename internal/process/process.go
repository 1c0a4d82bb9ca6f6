// Package process runs external tools as typed operations.
//
// Each invocation takes an explicit argument list (no shell, no quoting) and
// yields a Result carrying the exit code and any captured output. A non-zero
// exit is a Result, not an error: callers decide what a failed tool means for
// their stage. Errors are reserved for tools that could not be started.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// ErrToolNotFound is returned when a command's executable cannot be resolved.
var ErrToolNotFound = errors.New("external tool not found")

// Mode selects how a command's standard streams are wired.
type Mode int

const (
	// Capture buffers stdout and stderr into the Result only.
	Capture Mode = iota
	// Stream copies output to the runner's streams and also captures it.
	Stream
	// Inherit hands the runner's stdin, stdout and stderr to the child; nothing is captured.
	Inherit
)

func (m Mode) String() string {
	switch m {
	case Capture:
		return "capture"
	case Stream:
		return "stream"
	case Inherit:
		return "inherit"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Mode Mode
}

// Result is the structured outcome of a finished command.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Success reports whether the command exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Runner executes commands and blocks until they terminate.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's own standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// LookPath resolves name on PATH, wrapping failures with ErrToolNotFound.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrToolNotFound, name, err)
	}
	return path, nil
}

// Run starts cmd, waits for it and returns its Result.
func (r *ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	path, err := LookPath(c.Name)
	if err != nil {
		return nil, err
	}

	// #nosec G204 -- path comes from LookPath and args are passed without a shell
	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	switch c.Mode {
	case Inherit:
		cmd.Stdin = r.Stdin
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	case Stream:
		cmd.Stdout = teeTo(&stdout, r.Stdout)
		cmd.Stderr = teeTo(&stderr, r.Stderr)
	default:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	slog.Debug("Running external tool", logfields.Tool(c.Name), logfields.Args(c.Args), slog.String("mode", c.Mode.String()))

	start := time.Now()
	runErr := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", c.Name, runErr)
		}
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// Killed by a signal; report a conventional failure status.
			res.ExitCode = 1
		}
	}

	slog.Debug("External tool finished", logfields.Tool(c.Name), logfields.ExitCode(res.ExitCode),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
