package deps

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// DefaultSuffix is the archive suffix scanned for when none is configured.
const DefaultSuffix = ".jar"

// Set is an ordered sequence of archive paths.
type Set []string

// Join concatenates the set with sep, preserving order.
func (s Set) Join(sep string) string {
	return strings.Join(s, sep)
}

// With returns a new set with extra appended; s is never modified.
func (s Set) With(extra ...string) Set {
	out := make(Set, 0, len(s)+len(extra))
	out = append(out, s...)
	return append(out, extra...)
}

// Scan walks root recursively and returns every regular file whose name ends
// in suffix. A missing root yields an empty set.
func Scan(root, suffix string) (Set, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}

	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		slog.Warn("Library directory not found, continuing without archives", logfields.Path(root))
		return Set{}, nil
	}

	found := Set{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return found, nil
}

// Scanner scans one library directory once and serves the cached result to
// every later caller, so the compile and launch classpaths share one order.
type Scanner struct {
	root   string
	suffix string

	scanned bool
	set     Set
}

// NewScanner creates a scanner for root. An empty suffix means DefaultSuffix.
func NewScanner(root, suffix string) *Scanner {
	return &Scanner{root: root, suffix: suffix}
}

// Root returns the scanned directory.
func (s *Scanner) Root() string { return s.root }

// Scan performs the walk on first use and returns the cached set afterwards.
// Callers receive a copy.
func (s *Scanner) Scan() (Set, error) {
	if !s.scanned {
		set, err := Scan(s.root, s.suffix)
		if err != nil {
			return nil, err
		}
		s.set = set
		s.scanned = true
		slog.Debug("Scanned library archives", logfields.Path(s.root), logfields.Archives(len(set)))
	}
	return s.set.With(), nil
}
