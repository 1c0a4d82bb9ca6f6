package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		path   string
		ignore bool
	}{
		{"src/com/example/Main.java", false},
		{"lib/a.jar", false},
		{"src/.svn", true},
		{"src/.Main.java.swp", true},
		{"src/Main.java~", true},
		{"src/#Main.java#", true},
		{"src/Main.swx", true},
		{"Thumbs.db", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignore, shouldIgnoreEvent(tt.path))
		})
	}
}

func TestNew_WatchesSubdirectoriesButNotHidden(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "com", "example"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o750))

	w, err := New([]string{root, filepath.Join(root, "missing")}, 0)
	require.NoError(t, err)
	defer func() { _ = w.fs.Close() }()

	watched := w.Watched()
	assert.Contains(t, watched, filepath.Join(root, "com", "example"))
	assert.NotContains(t, watched, filepath.Join(root, ".git"))
	assert.NotContains(t, watched, filepath.Join(root, ".git", "objects"))
}

func TestRun_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	w, err := New([]string{root}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var builds atomic.Int32
	rebuilt := make(chan struct{}, 10)
	errc := make(chan error, 1)
	go func() {
		errc <- w.Run(ctx, func(context.Context) {
			builds.Add(1)
			rebuilt <- struct{}{}
		})
	}()

	// Ignored files never trigger a rebuild.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0o600))
	select {
	case <-rebuilt:
		t.Fatal("hidden file triggered a rebuild")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "Main.java"), []byte("class Main {}"), 0o600))
	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after a source change")
	}

	cancel()
	require.NoError(t, <-errc)
	assert.GreaterOrEqual(t, builds.Load(), int32(1))
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req, trigger, stop := newDebouncer(30 * time.Millisecond)
	defer stop()

	for range 5 {
		trigger()
	}
	select {
	case <-req:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}
