package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestReset_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build", "tmp")

	if err := Reset(dir); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Workspace directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("Workspace path is not a directory: %s", dir)
	}
}

func TestReset_EmptiesExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stale.jar"), []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "tmp", "classes", "a")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "A.class"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Reset(dir); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty workspace, found %d entries", len(entries))
	}
}

func TestReset_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")

	for i := 0; i < 2; i++ {
		if err := Reset(dir); err != nil {
			t.Fatalf("Reset() #%d failed: %v", i+1, err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("Workspace missing after reset #%d: %v", i+1, err)
		}
		if len(entries) != 0 {
			t.Fatalf("Workspace not empty after reset #%d", i+1)
		}
	}
}

func TestReset_DoesNotFollowSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	outside := t.TempDir()
	keep := filepath.Join(outside, "keep.txt")
	if err := os.WriteFile(keep, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(dir, "link")); err != nil {
		t.Fatal(err)
	}

	if err := Reset(dir); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("Symlink target content was removed: %v", err)
	}
}

func TestReset_RejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "build")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := Reset(file); err == nil {
		t.Fatal("Expected error when workspace path is a file")
	}
}

func TestReset_PropagatesRemoveFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission semantics differ for root and on windows")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	if err := os.MkdirAll(filepath.Join(locked, "inner"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(locked, "inner", "f"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(filepath.Join(locked, "inner"), 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(locked, "inner"), 0o750) })

	if err := Reset(dir); err == nil {
		t.Fatal("Expected Reset() to fail when a child cannot be removed")
	}
}

func TestManager_ResetAll(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	if err := os.MkdirAll(a, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(a, "old"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	mgr := NewManager(a, b)
	if err := mgr.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	for _, dir := range mgr.Dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) != 0 {
			t.Errorf("Directory %s not reset: entries=%d err=%v", dir, len(entries), err)
		}
	}

	sub, err := mgr.CreateSubdir(filepath.Join(b, "tmp", "classes"))
	if err != nil {
		t.Fatalf("CreateSubdir() failed: %v", err)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Errorf("Subdirectory missing: %v", err)
	}
}

func TestNewManager_DropsEmptyAndRepeatedDirs(t *testing.T) {
	mgr := NewManager("build", "", "build/classes", "build/", "build/classes")
	got := mgr.Dirs()
	if len(got) != 2 || got[0] != "build" || got[1] != "build/classes" {
		t.Errorf("Dirs() = %v, want [build build/classes]", got)
	}
}

func TestManager_ResetNestedDirs(t *testing.T) {
	base := t.TempDir()
	outer := filepath.Join(base, "build")
	inner := filepath.Join(outer, "classes")
	if err := os.MkdirAll(inner, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inner, "Stale.class"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := NewManager(outer, inner).Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	entries, err := os.ReadDir(inner)
	if err != nil || len(entries) != 0 {
		t.Errorf("inner directory not recreated empty: entries=%d err=%v", len(entries), err)
	}
}

func TestManager_ResetErrorNamesDirectory(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	err := NewManager(filepath.Join(base, "ok"), file).Reset()
	var re *ResetError
	if !errors.As(err, &re) {
		t.Fatalf("Reset() error = %v, want *ResetError", err)
	}
	if re.Dir != file {
		t.Errorf("ResetError.Dir = %q, want %q", re.Dir, file)
	}
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory in chain, got %v", err)
	}
}
