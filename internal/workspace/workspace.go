package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// ErrNotDirectory is returned when a workspace path exists but is not a directory.
var ErrNotDirectory = errors.New("workspace path is not a directory")

// Reset ensures dir exists and is empty. Files (and symlinks) directly under
// dir are removed individually; subdirectories are removed recursively as a unit.
func Reset(dir string) error {
	if dir == "" {
		return fmt.Errorf("reset workspace: empty path")
	}

	info, err := os.Lstat(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create workspace directory: %w", err)
		}
		slog.Debug("Created workspace directory", logfields.Path(dir))
		return nil
	case err != nil:
		return fmt.Errorf("failed to stat workspace directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list workspace directory: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	slog.Debug("Emptied workspace directory", logfields.Path(dir), slog.Int("removed", len(entries)))
	return nil
}

// ResetError reports the directory whose reset failed.
type ResetError struct {
	Dir string
	Err error
}

func (e *ResetError) Error() string { return e.Dir + ": " + e.Err.Error() }

func (e *ResetError) Unwrap() error { return e.Err }

// Manager handles the set of directories a pipeline variant resets before each run.
type Manager struct {
	dirs []string
}

// NewManager creates a workspace manager for the given directories, in reset
// order. Empty entries and repeats of an earlier directory are dropped.
func NewManager(dirs ...string) *Manager {
	m := &Manager{}
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		key := filepath.Clean(dir)
		if seen[key] {
			continue
		}
		seen[key] = true
		m.dirs = append(m.dirs, dir)
	}
	return m
}

// Dirs returns the managed directories.
func (m *Manager) Dirs() []string {
	return append([]string(nil), m.dirs...)
}

// Reset empties every managed directory, stopping at the first failure with
// a *ResetError.
func (m *Manager) Reset() error {
	for _, dir := range m.dirs {
		if err := Reset(dir); err != nil {
			return &ResetError{Dir: dir, Err: err}
		}
	}
	return nil
}

// CreateSubdir creates path (parents included) and returns it.
func (m *Manager) CreateSubdir(path string) (string, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}
	return path, nil
}
