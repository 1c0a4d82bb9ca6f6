package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/bootbuild/internal/config"
	"git.home.luguber.info/inful/bootbuild/internal/deps"
	"git.home.luguber.info/inful/bootbuild/internal/metrics"
	"git.home.luguber.info/inful/bootbuild/internal/packager"
)

// Service runs the pipeline for one variant.
type Service interface {
	// Run executes reset, stage, scan, compile, package and launch in order.
	// The Result is always returned, also when err is non-nil.
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains all inputs of one run.
type Request struct {
	// Variant is the build target.
	Variant *config.Variant

	// LibraryDir is scanned for dependency archives.
	LibraryDir string

	// ArchiveSuffix selects library files; "" means deps.DefaultSuffix.
	ArchiveSuffix string

	// Separator joins classpath entries; "" means the host separator.
	Separator string

	// Packager overrides the variant's packager backend when set.
	Packager string

	// NoLaunch stops the run after packaging.
	NoLaunch bool

}

// StageTiming records how long one stage took and how it ended.
type StageTiming struct {
	Stage    string
	Duration time.Duration
	Result   metrics.ResultLabel
}

// Result contains the outcome of a run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Variant is the name of the built variant.
	Variant string

	// Status indicates the overall outcome.
	Status Status

	// Archives are the discovered library archives in scan order.
	Archives deps.Set

	// Classpath is the compile classpath (libraries only).
	Classpath string

	// Units are the explicit compilation units handed to the compiler.
	Units []string

	// Artifact describes the packaged archive, nil when packaging did not run.
	Artifact *packager.Artifact

	// Revision is the source revision stamped into the artifact, if any.
	Revision string

	// Launched reports whether the program was started.
	Launched bool

	// ExitCode is the launched program's exit status.
	ExitCode int

	// Stages lists the stages that ran, in order.
	Stages []StageTiming

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// FailedStage returns the name of the stage that failed, or "".
func (r *Result) FailedStage() string {
	for _, s := range r.Stages {
		if s.Result == metrics.ResultFatal {
			return s.Stage
		}
	}
	return ""
}

// Status represents the outcome of a run.
type Status string

const (
	// StatusSuccess means every stage succeeded and the program, if launched, exited 0.
	StatusSuccess Status = "success"

	// StatusFailed means a stage failed; later stages did not run.
	StatusFailed Status = "failed"

	// StatusProgramFailed means the pipeline succeeded but the launched
	// program exited non-zero.
	StatusProgramFailed Status = "program_failed"

	// StatusCanceled means the run was canceled between stages.
	StatusCanceled Status = "canceled"
)

// IsSuccess returns true if the run completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}
