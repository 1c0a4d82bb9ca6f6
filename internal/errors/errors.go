// Package errors provides a lightweight structured error type (BuildError)
// for stage-labeled classification of pipeline failures in the CLI.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a bootbuild error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Host environment: missing tools, permissions
	CategoryEnvironment ErrorCategory = "environment"
	CategoryFileSystem  ErrorCategory = "filesystem"

	// Pipeline stage failures
	CategoryCompile ErrorCategory = "compile"
	CategoryPackage ErrorCategory = "package"
	CategoryLaunch  ErrorCategory = "launch"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// BuildError is a structured error with category, stage label and context.
type BuildError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Stage    string        `json:"stage,omitempty"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	// ExitCode, when non-zero, is the status the process should exit with
	// (set for launched programs that exited non-zero).
	ExitCode int           `json:"exit_code,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for BuildError
type ContextFields map[string]any

// Error implements the error interface
func (e *BuildError) Error() string {
	prefix := string(e.Category)
	if e.Stage != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Category, e.Stage)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap implements error unwrapping for errors.Is / errors.As
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *BuildError) WithContext(key string, value any) *BuildError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// WithStage labels the error with the pipeline stage that produced it.
func (e *BuildError) WithStage(stage string) *BuildError {
	e.Stage = stage
	return e
}

// New creates a new BuildError
func New(category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new BuildError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *BuildError {
	return &BuildError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As extracts the outermost BuildError from an error chain.
func As(err error) (*BuildError, bool) {
	var be *BuildError
	if stdErrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if be, ok := As(err); ok {
		return be.Category == category
	}
	return false
}

// StageOf returns the stage label carried by err, or "" when unlabeled.
func StageOf(err error) string {
	if be, ok := As(err); ok {
		return be.Stage
	}
	return ""
}
