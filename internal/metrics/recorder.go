package metrics

import "time"

// Namespace prefixes every exported metric name.
const Namespace = "bootbuild"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultSkipped  ResultLabel = "skipped"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// RunOutcomeLabel enumerates final run outcomes.
type RunOutcomeLabel string

const (
	RunOutcomeSuccess RunOutcomeLabel = "success"
	RunOutcomeFailed  RunOutcomeLabel = "failed"
	// RunOutcomeProgramFailed means the pipeline succeeded but the launched
	// program exited non-zero.
	RunOutcomeProgramFailed RunOutcomeLabel = "program_failed"
	RunOutcomeCanceled      RunOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for run and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome RunOutcomeLabel)
	SetArchives(n int)
	SetArtifactBytes(n int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)              {}
func (NoopRecorder) SetArchives(int)                            {}
func (NoopRecorder) SetArtifactBytes(int64)                     {}
