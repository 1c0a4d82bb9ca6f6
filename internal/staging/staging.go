// Package staging snapshots a source subtree into the workspace so the
// compiler reads a copy insulated from edits to the working tree.
package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// DefaultExcludes names version-control metadata directories never copied.
var DefaultExcludes = []string{".git", ".svn", ".cvs"}

// ErrDestinationExists is returned when the copy target already holds content.
var ErrDestinationExists = errors.New("staging destination already exists")

// Stats summarizes a copy.
type Stats struct {
	Files   int
	Dirs    int
	Skipped int
}

// CopyTree copies src recursively into dst, skipping directories whose name is
// in excludes (DefaultExcludes when nil). dst must be missing or an empty
// directory.
func CopyTree(src, dst string, excludes []string) (Stats, error) {
	var stats Stats
	if excludes == nil {
		excludes = DefaultExcludes
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return stats, fmt.Errorf("stat staging source: %w", err)
	}
	if !srcInfo.IsDir() {
		return stats, fmt.Errorf("staging source %s is not a directory", src)
	}
	if err := checkDestination(dst); err != nil {
		return stats, err
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if path != src && slices.Contains(excludes, d.Name()) {
				stats.Skipped++
				return filepath.SkipDir
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			stats.Dirs++
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		stats.Files++
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	slog.Debug("Staged source tree",
		logfields.Path(dst),
		slog.Int("files", stats.Files),
		slog.Int("skipped_dirs", stats.Skipped))
	return stats, nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}

func checkDestination(dst string) error {
	info, err := os.Lstat(dst)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat staging destination: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}
	entries, err := os.ReadDir(dst)
	if err != nil {
		return fmt.Errorf("read staging destination: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
	}
	return nil
}
