package build

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"git.home.luguber.info/inful/bootbuild/internal/compiler"
	"git.home.luguber.info/inful/bootbuild/internal/config"
	"git.home.luguber.info/inful/bootbuild/internal/console"
	"git.home.luguber.info/inful/bootbuild/internal/deps"
	bberrors "git.home.luguber.info/inful/bootbuild/internal/errors"
	"git.home.luguber.info/inful/bootbuild/internal/launcher"
	"git.home.luguber.info/inful/bootbuild/internal/logfields"
	"git.home.luguber.info/inful/bootbuild/internal/metrics"
	"git.home.luguber.info/inful/bootbuild/internal/observability"
	"git.home.luguber.info/inful/bootbuild/internal/packager"
	"git.home.luguber.info/inful/bootbuild/internal/process"
	"git.home.luguber.info/inful/bootbuild/internal/qualified"
	"git.home.luguber.info/inful/bootbuild/internal/staging"
	"git.home.luguber.info/inful/bootbuild/internal/vcs"
	"git.home.luguber.info/inful/bootbuild/internal/workspace"
)

// ImplementationVersion is the manifest header carrying the source revision.
const ImplementationVersion = "Implementation-Version"

// RevisionFunc returns the source revision of dir, or "" when unknown.
type RevisionFunc func(dir string) string

// DefaultService is the standard implementation of Service.
type DefaultService struct {
	runner    process.Runner
	tools     config.Tools
	recorder  metrics.Recorder
	console   *console.Console
	revision  RevisionFunc
	createdBy string
}

// NewService creates a DefaultService that runs external tools with runner.
func NewService(runner process.Runner, tools config.Tools) *DefaultService {
	return &DefaultService{
		runner:    runner,
		tools:     tools,
		recorder:  metrics.NoopRecorder{},
		console:   console.Plain(nil),
		revision:  vcs.Describe,
		createdBy: "bootbuild",
	}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithConsole sets where stage banners are printed.
func (s *DefaultService) WithConsole(c *console.Console) *DefaultService {
	if c != nil {
		s.console = c
	}
	return s
}

// WithRevisionFunc replaces the source revision lookup (for testing).
func (s *DefaultService) WithRevisionFunc(fn RevisionFunc) *DefaultService {
	if fn != nil {
		s.revision = fn
	}
	return s
}

// WithCreatedBy sets the Created-By manifest value of natively packaged archives.
func (s *DefaultService) WithCreatedBy(createdBy string) *DefaultService {
	s.createdBy = createdBy
	return s
}

// run carries the state of one Run call.
type run struct {
	ctx    context.Context
	req    Request
	result *Result
	ws     *workspace.Manager
	libs   *deps.Scanner
}

// Run executes the complete pipeline.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()
	result := &Result{
		RunID:     observability.NewRunID(),
		StartTime: startTime,
	}

	finish := func(status Status, err error) (*Result, error) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		s.recorder.IncRunOutcome(outcomeFor(status))
		s.recorder.ObserveRunDuration(result.Duration)
		return result, err
	}

	if req.Variant == nil {
		return finish(StatusFailed, bberrors.InternalError("invalid build request", ErrNoVariant))
	}
	v := req.Variant
	result.Variant = v.Name
	if err := config.ValidateVariant(v); err != nil {
		return finish(StatusFailed, bberrors.Wrap(err, bberrors.CategoryConfig, bberrors.SeverityFatal, "invalid variant").
			WithContext("variant", v.Name))
	}

	ctx = observability.WithRunID(ctx, result.RunID)
	ctx = observability.WithVariant(ctx, v.Name)
	r := &run{
		ctx:    ctx,
		req:    req,
		result: result,
		ws:     workspace.NewManager(append(slices.Clone(v.ResetDirs), v.ClassDir)...),
		libs:   deps.NewScanner(req.LibraryDir, req.ArchiveSuffix),
	}

	observability.InfoContext(ctx, "Starting build", logfields.MainClass(v.MainClass))

	steps := map[string]func(*run) error{
		StageReset:   s.reset,
		StageStage:   s.stage,
		StageScan:    s.scan,
		StageCompile: s.compile,
		StagePackage: s.pack,
		StageLaunch:  s.launch,
	}
	for _, stage := range Stages {
		if err := ctx.Err(); err != nil {
			s.recorder.IncStageResult(stage, metrics.ResultCanceled)
			observability.WarnContext(ctx, "Build canceled", logfields.Stage(stage))
			return finish(StatusCanceled, err)
		}
		if err := s.runStage(r, stage, steps[stage]); err != nil {
			if r.programFailed(err) {
				return finish(StatusProgramFailed, err)
			}
			return finish(StatusFailed, err)
		}
	}

	observability.InfoContext(ctx, "Build finished",
		logfields.DurationMS(float64(time.Since(startTime).Milliseconds())))
	return finish(StatusSuccess, nil)
}

// programFailed reports whether err only carries the launched program's own
// non-zero exit status.
func (r *run) programFailed(err error) bool {
	return r.result.Launched && r.result.ExitCode != 0 && bberrors.IsCategory(err, bberrors.CategoryLaunch)
}

// errSkipped marks a stage that had nothing to do.
var errSkipped = stderrors.New("stage skipped")

// runStage times fn, records its result and labels its error with stage.
func (s *DefaultService) runStage(r *run, stage string, fn func(*run) error) error {
	stageStart := time.Now()
	r.ctx = observability.WithStage(r.ctx, stage)

	err := fn(r)
	d := time.Since(stageStart)

	label := metrics.ResultSuccess
	switch {
	case stderrors.Is(err, errSkipped):
		label, err = metrics.ResultSkipped, nil
	case err != nil:
		label = metrics.ResultFatal
		if r.programFailed(err) {
			// The pipeline itself succeeded; the program made its own choice.
			label = metrics.ResultSuccess
		}
	}

	r.result.Stages = append(r.result.Stages, StageTiming{Stage: stage, Duration: d, Result: label})
	s.recorder.ObserveStageDuration(stage, d)
	s.recorder.IncStageResult(stage, label)

	if err != nil {
		if label == metrics.ResultFatal {
			observability.ErrorContext(r.ctx, "Stage failed",
				logfields.DurationMS(float64(d.Milliseconds())), logfields.Error(err))
		}
		if bberrors.StageOf(err) == "" {
			err = bberrors.StageFailed(bberrors.CategoryInternal, stage, err)
		}
		return err
	}
	observability.DebugContext(r.ctx, "Stage complete",
		logfields.DurationMS(float64(d.Milliseconds())), slog.String("result", string(label)))
	return nil
}

func (s *DefaultService) reset(r *run) error {
	v := r.req.Variant
	s.console.Stage("Cleaning build directory...")

	observability.DebugContext(r.ctx, "Resetting directories", slog.Any("dirs", r.ws.Dirs()))
	if err := r.ws.Reset(); err != nil {
		dir := v.ClassDir
		var re *workspace.ResetError
		if stderrors.As(err, &re) {
			dir = re.Dir
		}
		return bberrors.WorkspaceError(StageReset, dir, err)
	}
	return nil
}

func (s *DefaultService) stage(r *run) error {
	v := r.req.Variant
	if !v.Staged() {
		return errSkipped
	}
	s.console.Stage("Copying sources to build directory...")

	src := filepath.Join(v.SourceRoot, filepath.FromSlash(v.StageSubtree))
	dst := filepath.Join(v.StagingDir, filepath.FromSlash(v.StageSubtree))

	if err := workspace.Reset(v.StagingDir); err != nil {
		return bberrors.WorkspaceError(StageStage, v.StagingDir, err)
	}
	stats, err := staging.CopyTree(src, dst, staging.DefaultExcludes)
	if err != nil {
		return bberrors.WorkspaceError(StageStage, dst, err)
	}
	observability.InfoContext(r.ctx, "Sources staged",
		logfields.Path(dst),
		slog.Int("files", stats.Files),
		slog.Int("skipped", stats.Skipped))
	return nil
}

func (s *DefaultService) scan(r *run) error {
	sep := r.req.Separator
	if sep == "" {
		sep = deps.Separator(deps.HostFamily())
	}
	r.req.Separator = sep

	archives, err := r.libs.Scan()
	if err != nil {
		return bberrors.StageFailed(bberrors.CategoryFileSystem, StageScan, err)
	}
	r.result.Archives = archives
	r.result.Classpath = archives.Join(sep)
	s.recorder.SetArchives(len(archives))

	observability.InfoContext(r.ctx, "Library archives discovered",
		logfields.Path(r.req.LibraryDir), logfields.Archives(len(archives)))
	return nil
}

func (s *DefaultService) compile(r *run) error {
	v := r.req.Variant
	s.console.Stage("Compiling sources...")

	mainClass, err := qualified.Parse(v.MainClass)
	if err != nil {
		return bberrors.ValidationFailed("main_class", err.Error()).WithStage(StageCompile)
	}
	root := v.CompileRoot()
	entry := mainClass.SourceFile(root)
	if _, err := os.Stat(entry); err != nil {
		return bberrors.StageFailed(bberrors.CategoryCompile, StageCompile,
			fmt.Errorf("%w: %s: %w", ErrEntryPointMissing, entry, err))
	}

	units, err := compiler.CollectUnits(root, entry, v.ExtraUnitGlobs)
	if err != nil {
		return bberrors.StageFailed(bberrors.CategoryFileSystem, StageCompile, err)
	}
	r.result.Units = units

	if _, err := r.ws.CreateSubdir(v.ClassDir); err != nil {
		return bberrors.WorkspaceError(StageCompile, v.ClassDir, err)
	}

	invoker := compiler.NewInvoker(s.runner, s.tools.Compiler)
	res, err := invoker.Compile(r.ctx, compiler.Options{
		SourcePath:  root,
		Classpath:   r.result.Classpath,
		OutputDir:   v.ClassDir,
		Units:       units,
		SourceLevel: v.SourceLevel,
		Encoding:    v.Encoding,
		Flags:       v.CompilerFlags,
	})
	switch {
	case stderrors.Is(err, process.ErrToolNotFound):
		return bberrors.ToolNotFound(StageCompile, invoker.Tool(), err)
	case stderrors.Is(err, compiler.ErrCompileFailed):
		return bberrors.CompileFailed(StageCompile, res.ExitCode)
	case err != nil:
		return bberrors.StageFailed(bberrors.CategoryCompile, StageCompile, err)
	}

	observability.InfoContext(r.ctx, "Compilation succeeded",
		logfields.Units(len(units)), logfields.Path(v.ClassDir))
	return nil
}

func (s *DefaultService) pack(r *run) error {
	v := r.req.Variant
	s.console.Stage("Creating %s jar...", v.Name)

	kind := v.Packager
	if r.req.Packager != "" {
		kind = r.req.Packager
	}
	p, err := packager.New(kind, s.runner, s.tools.Packager, s.createdBy)
	if err != nil {
		return bberrors.ValidationFailed("packager", err.Error()).WithStage(StagePackage)
	}

	var attrs []packager.Attribute
	if v.StampRevision {
		if rev := s.revision(v.SourceRoot); rev != "" {
			r.result.Revision = rev
			attrs = append(attrs, packager.Attribute{Name: ImplementationVersion, Value: rev})
		} else {
			observability.WarnContext(r.ctx, "No source revision available, artifact left unstamped",
				logfields.Path(v.SourceRoot))
		}
	}

	art, err := p.Package(r.ctx, packager.Request{
		ClassDir:   v.ClassDir,
		MainClass:  v.MainClass,
		Output:     v.Artifact,
		Attributes: attrs,
	})
	if err != nil {
		if stderrors.Is(err, process.ErrToolNotFound) {
			return bberrors.ToolNotFound(StagePackage, s.tools.Packager, err)
		}
		return bberrors.PackageFailed(StagePackage, err)
	}
	r.result.Artifact = art
	s.recorder.SetArtifactBytes(art.Size)

	attrsLog := []slog.Attr{
		logfields.Artifact(art.Path),
		logfields.Packager(p.Kind()),
		logfields.Bytes(art.Size),
		logfields.Digest(art.Digest),
	}
	if r.result.Revision != "" {
		attrsLog = append(attrsLog, logfields.Revision(r.result.Revision))
	}
	observability.InfoContext(r.ctx, "Artifact packaged", attrsLog...)
	return nil
}

func (s *DefaultService) launch(r *run) error {
	if r.req.NoLaunch {
		return errSkipped
	}
	v := r.req.Variant
	s.console.Stage("Launching %s...", v.Name)
	s.console.Separator()

	libs, err := r.libs.Scan()
	if err != nil {
		return bberrors.StageFailed(bberrors.CategoryFileSystem, StageLaunch, err)
	}
	l := launcher.New(s.runner, s.tools.Runtime)
	r.result.Launched = true
	code, err := l.Launch(r.ctx, launcher.Request{
		Libraries: libs,
		Artifact:  r.result.Artifact.Path,
		Separator: r.req.Separator,
		MainClass: v.MainClass,
		Flags:     v.LaunchFlags,
	})
	if err != nil {
		r.result.Launched = false
		if stderrors.Is(err, process.ErrToolNotFound) {
			return bberrors.ToolNotFound(StageLaunch, l.Runtime(), err)
		}
		return bberrors.LaunchFailed(StageLaunch, err)
	}
	r.result.ExitCode = code
	if code != 0 {
		return bberrors.LaunchExited(StageLaunch, code)
	}
	return nil
}

func outcomeFor(status Status) metrics.RunOutcomeLabel {
	switch status {
	case StatusSuccess:
		return metrics.RunOutcomeSuccess
	case StatusProgramFailed:
		return metrics.RunOutcomeProgramFailed
	case StatusCanceled:
		return metrics.RunOutcomeCanceled
	default:
		return metrics.RunOutcomeFailed
	}
}
