package packager

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// EntryTime is the modification time stamped on every native archive entry.
var EntryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Native writes archives in-process with deterministic content.
type Native struct {
	// CreatedBy is written to the manifest's Created-By header.
	CreatedBy string
}

// NewNative creates a native packager.
func NewNative(createdBy string) *Native {
	return &Native{CreatedBy: createdBy}
}

func (n *Native) Kind() string { return KindNative }

// Package writes the archive and replaces req.Output with it.
func (n *Native) Package(ctx context.Context, req Request) (*Artifact, error) {
	if err := checkClassDir(req.ClassDir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	tmp := tempPath(req.Output)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}

	entries, werr := n.write(ctx, f, req)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp)
		return nil, werr
	}

	art, err := commit(tmp, req.Output)
	if err != nil {
		return nil, err
	}
	slog.Debug("Packaged natively",
		logfields.Artifact(art.Path),
		logfields.Bytes(art.Size),
		slog.Int("entries", entries))
	return art, nil
}

func (n *Native) write(ctx context.Context, w io.Writer, req Request) (int, error) {
	zw := zip.NewWriter(w)
	entries := 0

	if err := addDir(zw, "META-INF/"); err != nil {
		return entries, err
	}
	manifest := Manifest{CreatedBy: n.CreatedBy, MainClass: req.MainClass, Attributes: req.Attributes}
	if err := addFile(zw, ManifestPath, manifest.Bytes()); err != nil {
		return entries, err
	}
	entries += 2

	err := filepath.WalkDir(req.ClassDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(req.ClassDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			if name == "META-INF" {
				return nil
			}
			entries++
			return addDir(zw, name+"/")
		case !d.Type().IsRegular():
			return nil
		case name == ManifestPath:
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries++
		return addFile(zw, name, data)
	})
	if err != nil {
		return entries, fmt.Errorf("write archive entries: %w", err)
	}
	if err := zw.Close(); err != nil {
		return entries, fmt.Errorf("finish archive: %w", err)
	}
	return entries, nil
}

func addDir(zw *zip.Writer, name string) error {
	h := &zip.FileHeader{Name: name, Method: zip.Store, Modified: EntryTime}
	h.SetMode(fs.ModeDir | 0o755)
	_, err := zw.CreateHeader(h)
	return err
}

func addFile(zw *zip.Writer, name string, data []byte) error {
	h := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: EntryTime}
	h.SetMode(0o644)
	fw, err := zw.CreateHeader(h)
	if err != nil {
		return err
	}
	_, err = fw.Write(data)
	return err
}
