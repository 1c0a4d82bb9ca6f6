package packager

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"
)

// Backend names accepted in configuration.
const (
	KindJar    = "jar"
	KindNative = "native"
)

var (
	// ErrNoCompiledUnits is returned when the class directory is missing or empty.
	ErrNoCompiledUnits = errors.New("no compiled units to package")
	// ErrPackageFailed is returned when the archive tool exits non-zero.
	ErrPackageFailed = errors.New("packaging tool failed")
	// ErrUnknownKind is returned by New for an unsupported backend name.
	ErrUnknownKind = errors.New("unknown packager")
)

// Request describes one archive to build.
type Request struct {
	// ClassDir holds the compiled units; its relative layout is preserved.
	ClassDir string
	// MainClass is declared as the archive entry point.
	MainClass string
	// Output is the artifact path; any existing file is replaced.
	Output string
	// Attributes are extra manifest headers, written in order after Main-Class.
	Attributes []Attribute
}

// Artifact describes a packaged archive.
type Artifact struct {
	Path   string
	Size   int64
	Digest string // hex blake3-256 of the archive bytes
}

// Packager builds an executable archive from a Request.
type Packager interface {
	Kind() string
	Package(ctx context.Context, req Request) (*Artifact, error)
}

// checkClassDir verifies that dir exists and contains at least one regular file.
func checkClassDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoCompiledUnits, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrNoCompiledUnits, dir)
	}

	found := errors.New("found")
	err = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			return found
		}
		return nil
	})
	switch {
	case errors.Is(err, found):
		return nil
	case err != nil:
		return fmt.Errorf("inspect %s: %w", dir, err)
	default:
		return fmt.Errorf("%w: %s is empty", ErrNoCompiledUnits, dir)
	}
}

// tempPath returns the in-progress sibling of output.
func tempPath(output string) string {
	return output + ".tmp"
}

// commit moves the finished temporary archive over output and describes it.
func commit(tmp, output string) (*Artifact, error) {
	if err := os.Rename(tmp, output); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("replace %s: %w", output, err)
	}
	info, err := os.Stat(output)
	if err != nil {
		return nil, err
	}
	digest, err := Digest(output)
	if err != nil {
		return nil, err
	}
	return &Artifact{Path: output, Size: info.Size(), Digest: digest}, nil
}

// Digest returns the hex blake3-256 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
