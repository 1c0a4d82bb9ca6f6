package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string, cause error) *BuildError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *BuildError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "validation failed: "+field+": "+reason).
		WithContext("field", field).
		WithContext("reason", reason)
}

func UnknownVariant(name string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "unknown variant "+name).
		WithContext("variant", name)
}

// Pipeline stage errors

// StageFailed labels any stage failure that has no more specific constructor.
func StageFailed(category ErrorCategory, stage string, cause error) *BuildError {
	return Wrap(cause, category, SeverityFatal, "stage failed").
		WithStage(stage)
}

func ToolNotFound(stage, tool string, cause error) *BuildError {
	return Wrap(cause, CategoryEnvironment, SeverityFatal, "required external tool not found").
		WithStage(stage).
		WithContext("tool", tool)
}

func WorkspaceError(stage, path string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithStage(stage).
		WithContext("path", path)
}

func CompileFailed(stage string, exitCode int) *BuildError {
	return New(CategoryCompile, SeverityFatal, "compiler reported failure").
		WithStage(stage).
		WithContext("exit_code", exitCode)
}

func PackageFailed(stage string, cause error) *BuildError {
	return Wrap(cause, CategoryPackage, SeverityFatal, "packaging failed").
		WithStage(stage)
}

// LaunchExited reports a launched program that exited non-zero; the CLI
// propagates its status verbatim.
func LaunchExited(stage string, exitCode int) *BuildError {
	e := New(CategoryLaunch, SeverityError, "launched program exited with non-zero status").
		WithStage(stage).
		WithContext("exit_code", exitCode)
	e.ExitCode = exitCode
	return e
}

func LaunchFailed(stage string, cause error) *BuildError {
	return Wrap(cause, CategoryLaunch, SeverityFatal, "launch failed").
		WithStage(stage)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
