// Package launcher hands control to the freshly packaged program.
package launcher

import (
	"context"
	"errors"
	"log/slog"

	"git.home.luguber.info/inful/bootbuild/internal/deps"
	"git.home.luguber.info/inful/bootbuild/internal/logfields"
	"git.home.luguber.info/inful/bootbuild/internal/process"
)

// DefaultRuntime is the runtime executable used when none is configured.
const DefaultRuntime = "java"

// ErrNoMainClass is returned when a launch request names no entry point.
var ErrNoMainClass = errors.New("no main class to launch")

// Request describes one program launch.
type Request struct {
	// Libraries are the discovered dependency archives, in scan order.
	Libraries deps.Set
	// Artifact is the packaged program; it is placed after Libraries.
	Artifact string
	// Separator joins classpath entries.
	Separator string
	// MainClass is the entry point.
	MainClass string
	// Flags are runtime options placed before the main class.
	Flags []string
	// Dir is the working directory of the program; "" means the current one.
	Dir string
}

// Classpath returns the launch classpath: libraries first, artifact last.
func (r Request) Classpath() string {
	return r.Libraries.With(r.Artifact).Join(r.Separator)
}

// RuntimeArgs renders the runtime argument list.
func (r Request) RuntimeArgs() []string {
	args := []string{"-classpath", r.Classpath()}
	args = append(args, r.Flags...)
	return append(args, r.MainClass)
}

// Launcher starts the runtime with inherited standard streams.
type Launcher struct {
	runner  process.Runner
	runtime string
}

// New creates a Launcher; an empty runtime means DefaultRuntime.
func New(runner process.Runner, runtime string) *Launcher {
	if runtime == "" {
		runtime = DefaultRuntime
	}
	return &Launcher{runner: runner, runtime: runtime}
}

// Runtime returns the runtime executable name.
func (l *Launcher) Runtime() string { return l.runtime }

// Launch runs the program to completion and returns its exit status.
// A program that ran and failed is not an error; only a runtime that could
// not be started is.
func (l *Launcher) Launch(ctx context.Context, req Request) (int, error) {
	if req.MainClass == "" {
		return 0, ErrNoMainClass
	}

	slog.Debug("Launching program",
		logfields.Tool(l.runtime),
		logfields.MainClass(req.MainClass),
		logfields.Archives(len(req.Libraries)))

	res, err := l.runner.Run(ctx, process.Command{
		Name: l.runtime,
		Args: req.RuntimeArgs(),
		Dir:  req.Dir,
		Mode: process.Inherit,
	})
	if err != nil {
		return 0, err
	}
	return res.ExitCode, nil
}
