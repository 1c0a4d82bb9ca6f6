package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bootbuild/internal/build"
	"git.home.luguber.info/inful/bootbuild/internal/config"
	"git.home.luguber.info/inful/bootbuild/internal/console"
	"git.home.luguber.info/inful/bootbuild/internal/deps"
	bberrors "git.home.luguber.info/inful/bootbuild/internal/errors"
	"git.home.luguber.info/inful/bootbuild/internal/metrics"
	"git.home.luguber.info/inful/bootbuild/internal/packager"
	"git.home.luguber.info/inful/bootbuild/internal/process"
	"git.home.luguber.info/inful/bootbuild/internal/version"
)

// Global is shared state handed to every command.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output (banners, listings).
	Out io.Writer
	// Runner executes external tools; nil means the real toolchain.
	Runner process.Runner
}

// NewGlobal returns the Global used by the bootbuild binary.
func NewGlobal() *Global {
	return &Global{Logger: slog.Default(), Out: os.Stdout}
}

func (g *Global) runner() process.Runner {
	if g.Runner != nil {
		return g.Runner
	}
	return process.NewExecRunner()
}

func (g *Global) console() *console.Console {
	if g.Out == nil {
		return console.Plain(nil)
	}
	return console.New(g.Out)
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (optional; built-in variants apply when absent)" default:"bootbuild.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`
	Chdir   string           `short:"C" name:"chdir" help:"Project root; relative paths resolve against it" type:"existingdir"`

	Build     BuildCmd     `cmd:"" default:"withargs" help:"Clean, compile, package and launch a variant (default command)"`
	Classpath ClasspathCmd `cmd:"" help:"Print the library classpath of a variant"`
	Variants  VariantsCmd  `cmd:"" help:"List configured variants"`
	Init      InitCmd      `cmd:"" help:"Write an example configuration file"`
	Watch     WatchCmd     `cmd:"" help:"Rebuild and relaunch a variant whenever its sources change"`
}

// AfterApply runs after flag parsing; setup logging and the project root once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if c.Chdir != "" {
		if err := os.Chdir(c.Chdir); err != nil {
			return bberrors.ValidationFailed("chdir", err.Error())
		}
		slog.Debug("Changed project root", "path", c.Chdir)
	}
	return nil
}

// LoadConfig loads the configuration file. The default file name is optional;
// an explicitly named file must exist.
func (c *CLI) LoadConfig() (*config.Config, error) {
	if c.Config == config.DefaultFilename {
		return config.LoadOrDefault(c.Config)
	}
	return config.Load(c.Config)
}

// CreatedBy is recorded in natively packaged manifests.
func CreatedBy() string {
	return "bootbuild " + version.Version
}

// buildOptions are the per-invocation choices shared by build and watch.
type buildOptions struct {
	Packager string
	NoLaunch bool
}

// newRequest assembles a pipeline request for v.
func newRequest(cfg *config.Config, v *config.Variant, opts buildOptions) (build.Request, error) {
	switch opts.Packager {
	case "", packager.KindJar, packager.KindNative:
	default:
		return build.Request{}, bberrors.ValidationFailed("packager",
			fmt.Sprintf("must be %q or %q, got %q", packager.KindJar, packager.KindNative, opts.Packager))
	}
	return build.Request{
		Variant:       v,
		LibraryDir:    cfg.LibraryDir,
		ArchiveSuffix: cfg.ArchiveSuffix,
		Separator:     deps.Separator(deps.HostFamily()),
		Packager:      opts.Packager,
		NoLaunch:      opts.NoLaunch,
	}, nil
}

// newService wires the pipeline with the real toolchain and console.
func newService(g *Global, cfg *config.Config, recorder metrics.Recorder) *build.DefaultService {
	return build.NewService(g.runner(), cfg.Tools).
		WithRecorder(recorder).
		WithConsole(g.console()).
		WithCreatedBy(CreatedBy())
}
