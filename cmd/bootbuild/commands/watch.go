package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/bootbuild/internal/logfields"
	"git.home.luguber.info/inful/bootbuild/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Variant  string        `arg:"" optional:"" help:"Variant to build (default from configuration)"`
	Packager string        `name:"packager" help:"Override the packager backend (jar|native)"`
	NoLaunch bool          `name:"no-launch" help:"Stop each run after packaging"`
	Debounce time.Duration `name:"debounce" default:"300ms" help:"Quiet period after the last change before rebuilding"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	v, err := cfg.Variant(w.Variant)
	if err != nil {
		return err
	}
	opts := buildOptions{Packager: w.Packager, NoLaunch: w.NoLaunch}

	rebuild := func(ctx context.Context) {
		// Every run is a full clean rebuild; failures are reported and the
		// watch continues.
		if _, err := RunBuild(ctx, g, root, v.Name, opts, ""); err != nil && ctx.Err() == nil {
			slog.Warn("Build failed, waiting for changes", logfields.Variant(v.Name), logfields.Error(err))
		}
	}

	watcher, err := watch.New([]string{v.SourceRoot, cfg.LibraryDir}, w.Debounce)
	if err != nil {
		return err
	}
	rebuild(ctx)
	slog.Info("Watching for changes", logfields.Variant(v.Name), slog.Int("dirs", len(watcher.Watched())))
	return watcher.Run(ctx, rebuild)
}
