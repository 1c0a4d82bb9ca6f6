package build

import "errors"

// Stage names used in logs, metrics and error labels.
const (
	StageReset   = "reset"
	StageStage   = "stage"
	StageScan    = "scan"
	StageCompile = "compile"
	StagePackage = "package"
	StageLaunch  = "launch"
)

// Stages lists every stage in execution order.
var Stages = []string{StageReset, StageStage, StageScan, StageCompile, StagePackage, StageLaunch}

var (
	// ErrNoVariant is returned when a Request carries no variant.
	ErrNoVariant = errors.New("no variant to build")
	// ErrEntryPointMissing is returned when the main class has no source file.
	ErrEntryPointMissing = errors.New("entry point source not found")
)
