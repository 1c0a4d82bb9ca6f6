package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bootbuild/internal/build"
	"git.home.luguber.info/inful/bootbuild/internal/logfields"
	"git.home.luguber.info/inful/bootbuild/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Variant     string `arg:"" optional:"" help:"Variant to build (default from configuration)"`
	Packager    string `name:"packager" help:"Override the packager backend (jar|native)"`
	MetricsFile string `name:"metrics-file" type:"path" help:"Write Prometheus metrics for this run to a textfile"`
	NoLaunch    bool   `name:"no-launch" help:"Stop after packaging"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	_, err := RunBuild(ctx, g, root, b.Variant, buildOptions{
		Packager: b.Packager,
		NoLaunch: b.NoLaunch,
	}, b.MetricsFile)
	return err
}

// RunBuild loads the configuration and runs the pipeline once for variant.
// When metricsFile is set the run's metrics are written there, also on failure.
func RunBuild(ctx context.Context, g *Global, root *CLI, variant string, opts buildOptions, metricsFile string) (*build.Result, error) {
	cfg, err := root.LoadConfig()
	if err != nil {
		return nil, err
	}
	v, err := cfg.Variant(variant)
	if err != nil {
		return nil, err
	}
	req, err := newRequest(cfg, v, opts)
	if err != nil {
		return nil, err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prometheus *metrics.PrometheusRecorder
	if metricsFile != "" {
		prometheus = metrics.NewPrometheusRecorder(prom.NewRegistry())
		recorder = prometheus
	}

	res, runErr := newService(g, cfg, recorder).Run(ctx, req)

	if prometheus != nil {
		if err := prometheus.WriteTextfile(metricsFile); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(metricsFile), logfields.Error(err))
		}
	}

	if runErr == nil && res != nil && req.NoLaunch && res.Artifact != nil {
		g.console().Success("Built %s (%d bytes, blake3 %s)", res.Artifact.Path, res.Artifact.Size, shortDigest(res.Artifact.Digest))
	}
	if res != nil && res.Status == build.StatusFailed {
		g.console().Failure("Build of %s failed at stage %s", v.Name, res.FailedStage())
	}
	return res, runErr
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
