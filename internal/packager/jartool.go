package packager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
	"git.home.luguber.info/inful/bootbuild/internal/process"
)

// DefaultJarTool is the archive tool executable used when none is configured.
const DefaultJarTool = "jar"

// JarTool packages with the external `jar` tool.
type JarTool struct {
	runner process.Runner
	tool   string
}

// NewJarTool creates a JarTool; an empty tool means DefaultJarTool.
func NewJarTool(runner process.Runner, tool string) *JarTool {
	if tool == "" {
		tool = DefaultJarTool
	}
	return &JarTool{runner: runner, tool: tool}
}

func (j *JarTool) Kind() string { return KindJar }

// Args renders the tool arguments for writing archive to out. manifest is
// the path of an extra-attributes manifest file, or "" for none.
func (j *JarTool) Args(req Request, out, manifest string) []string {
	if manifest == "" {
		return []string{"cfe", out, req.MainClass, "-C", req.ClassDir, "."}
	}
	return []string{"cfme", out, manifest, req.MainClass, "-C", req.ClassDir, "."}
}

// Package runs the tool and replaces req.Output with the result.
func (j *JarTool) Package(ctx context.Context, req Request) (*Artifact, error) {
	if err := checkClassDir(req.ClassDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	manifest := ""
	if len(req.Attributes) > 0 {
		// Main-Class comes from the entry point flag; the file only adds headers.
		f, err := os.CreateTemp("", "bootbuild-manifest-*.mf")
		if err != nil {
			return nil, fmt.Errorf("create manifest: %w", err)
		}
		manifest = f.Name()
		defer func() { _ = os.Remove(manifest) }()
		_, werr := f.Write(Manifest{Attributes: req.Attributes}.Bytes())
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return nil, fmt.Errorf("write manifest: %w", werr)
		}
	}

	tmp := tempPath(req.Output)
	_ = os.Remove(tmp)

	res, err := j.runner.Run(ctx, process.Command{
		Name: j.tool,
		Args: j.Args(req, tmp, manifest),
		Mode: process.Stream,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("%w: %s exited with status %d", ErrPackageFailed, j.tool, res.ExitCode)
	}

	art, err := commit(tmp, req.Output)
	if err != nil {
		return nil, err
	}
	slog.Debug("Packaged with jar tool", logfields.Artifact(art.Path), logfields.Bytes(art.Size))
	return art, nil
}
