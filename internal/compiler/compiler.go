// Package compiler invokes the external Java compiler for stage-1 builds.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
	"git.home.luguber.info/inful/bootbuild/internal/process"
)

// DefaultTool is the compiler executable used when none is configured.
const DefaultTool = "javac"

var (
	// ErrCompileFailed is returned when the compiler exits non-zero.
	ErrCompileFailed = errors.New("compilation failed")
	// ErrNoUnits is returned when there is nothing to compile.
	ErrNoUnits = errors.New("no compilation units")
)

// Options are the inputs of one compiler invocation.
type Options struct {
	// SourcePath is the root the compiler searches for referenced sources.
	SourcePath string
	// Classpath is the already joined dependency classpath; may be empty.
	Classpath string
	// OutputDir receives the compiled units.
	OutputDir string
	// Units are the explicit compilation units, entry point first.
	Units []string
	// SourceLevel pins -source and -target when set.
	SourceLevel string
	// Encoding pins the source file encoding when set.
	Encoding string
	// Flags are passed through verbatim before the units.
	Flags []string
}

// Args renders the compiler argument list. Warnings are always suppressed.
func (o Options) Args() []string {
	args := []string{"-sourcepath", o.SourcePath}
	if o.Classpath != "" {
		args = append(args, "-classpath", o.Classpath)
	}
	args = append(args, "-nowarn")
	if o.SourceLevel != "" {
		args = append(args, "-source", o.SourceLevel, "-target", o.SourceLevel)
	}
	if o.Encoding != "" {
		args = append(args, "-encoding", o.Encoding)
	}
	args = append(args, "-d", o.OutputDir)
	args = append(args, o.Flags...)
	return append(args, o.Units...)
}

// Invoker runs the compiler through a process.Runner.
type Invoker struct {
	runner process.Runner
	tool   string
}

// NewInvoker creates an invoker; an empty tool means DefaultTool.
func NewInvoker(runner process.Runner, tool string) *Invoker {
	if tool == "" {
		tool = DefaultTool
	}
	return &Invoker{runner: runner, tool: tool}
}

// Tool returns the compiler executable name.
func (i *Invoker) Tool() string { return i.tool }

// Compile runs the compiler and waits for it. The compiler's diagnostics are
// streamed to the terminal and kept in the returned Result. A non-zero exit
// returns the Result together with ErrCompileFailed.
func (i *Invoker) Compile(ctx context.Context, opts Options) (*process.Result, error) {
	if len(opts.Units) == 0 {
		return nil, ErrNoUnits
	}

	slog.Debug("Invoking compiler",
		logfields.Tool(i.tool),
		logfields.Units(len(opts.Units)),
		logfields.Path(opts.OutputDir))

	res, err := i.runner.Run(ctx, process.Command{
		Name: i.tool,
		Args: opts.Args(),
		Mode: process.Stream,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return res, fmt.Errorf("%w: %s exited with status %d", ErrCompileFailed, i.tool, res.ExitCode)
	}
	return res, nil
}

// CollectUnits returns entry followed by every file under root whose base name
// matches one of patterns (filepath.Match syntax, e.g. "*Test.java"), in walk
// order and without repeating entry.
func CollectUnits(root, entry string, patterns []string) ([]string, error) {
	units := []string{entry}
	if len(patterns) == 0 {
		return units, nil
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid unit pattern %q: %w", p, err)
		}
	}

	cleanEntry := filepath.Clean(entry)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Clean(path) == cleanEntry {
			return nil
		}
		if slices.ContainsFunc(patterns, func(p string) bool {
			ok, _ := filepath.Match(p, d.Name())
			return ok
		}) {
			units = append(units, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect compilation units under %s: %w", root, err)
	}
	return units, nil
}
