// Package watch re-runs a build whenever a watched source tree changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc runs one build. Calls never overlap.
type RebuildFunc func(ctx context.Context)

// Watcher watches directory trees recursively.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
}

// New watches every directory below roots. Missing roots are skipped.
func New(roots []string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			slog.Warn("Watch root not found, skipping", logfields.Path(root))
			continue
		}
		if err := addDirsRecursive(fw, root); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return &Watcher{fs: fw, debounce: debounce}, nil
}

// Watched returns the directories currently being watched.
func (w *Watcher) Watched() []string {
	return w.fs.WatchList()
}

// Run dispatches debounced rebuilds until ctx is done, then closes the
// watcher. A change seen during a rebuild schedules exactly one more.
func (w *Watcher) Run(ctx context.Context, rebuild RebuildFunc) error {
	defer func() { _ = w.fs.Close() }()

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				rebuild(ctx)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, trigger)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(w.fs, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

// newDebouncer returns a request channel, a trigger that fires it once the
// debounce period passes without another trigger, and a stop function.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	req := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case req <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return req, trigger, stop
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && shouldIgnoreEvent(path) {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for paths that never trigger rebuilds:
// hidden files and directories (including VCS metadata) and editor temp files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
