// Package qualified models dot-separated, package-qualified class names and
// their slash-separated filesystem paths.
package qualified

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// SourceSuffix is the file extension of a compilation unit.
const SourceSuffix = ".java"

var (
	ErrEmptyName      = errors.New("qualified name is empty")
	ErrInvalidSegment = errors.New("qualified name has an invalid segment")
)

// Name is a dot-separated identifier such as "a.b.C".
type Name string

// Parse validates s and returns it as a Name.
func Parse(s string) (Name, error) {
	n := Name(strings.TrimSpace(s))
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

// Validate reports whether every segment is a valid identifier.
func (n Name) Validate() error {
	if n == "" {
		return ErrEmptyName
	}
	for _, seg := range n.Segments() {
		if !isIdentifier(seg) {
			return fmt.Errorf("%w: %q in %q", ErrInvalidSegment, seg, string(n))
		}
	}
	return nil
}

// Segments splits the name on dots.
func (n Name) Segments() []string {
	return strings.Split(string(n), ".")
}

// Path returns the slash-separated form, e.g. "a/b/C".
func (n Name) Path() string {
	return strings.ReplaceAll(string(n), ".", "/")
}

// SourceFile locates the compilation unit for n under root using the host
// path separator.
func (n Name) SourceFile(root string) string {
	return filepath.Join(root, filepath.FromSlash(n.Path())+SourceSuffix)
}

func (n Name) String() string { return string(n) }

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
