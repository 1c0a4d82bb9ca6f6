package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects user-facing messages (tests).
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if be, ok := As(err); ok {
		return a.exitCodeFromBuildError(be)
	}

	return 1
}

// exitCodeFromBuildError maps BuildError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromBuildError(err *BuildError) int {
	if err.ExitCode != 0 {
		return err.ExitCode
	}
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryEnvironment:
		return 8 // Missing tool or host problem
	case CategoryCompile:
		return 11
	case CategoryPackage:
		return 12
	case CategoryFileSystem:
		return 13
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if be, ok := As(err); ok {
		return a.formatBuildError(be)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatBuildError formats a BuildError for display. Stage failures always
// name the stage so the user knows where the pipeline stopped.
func (a *CLIErrorAdapter) formatBuildError(err *BuildError) string {
	if a.verbose {
		return err.Error()
	}

	msg := err.Message
	if err.Cause != nil {
		msg = fmt.Sprintf("%s: %v", err.Message, err.Cause)
	}
	switch {
	case err.Stage != "":
		return fmt.Sprintf("stage %s failed: %s", err.Stage, msg)
	case err.Category == CategoryConfig || err.Category == CategoryValidation:
		return msg
	default:
		return fmt.Sprintf("%s: %s", err.Category, msg)
	}
}

// Report logs and prints err and returns the exit code the process should use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}

	if a.shouldLog(err) {
		a.logError(err)
	}
	if !a.verbose && isProgramExit(err) {
		return a.ExitCodeFor(err)
	}
	_, _ = fmt.Fprintf(a.out, "%s\n", a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Report(err))
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if be, ok := As(err); ok {
		// The launched program already spoke for itself on the inherited streams.
		if isProgramExit(be) {
			return false
		}
		return be.Category == CategoryInternal || be.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if be, ok := As(err); ok {
		attrs := []slog.Attr{
			slog.String("category", string(be.Category)),
		}
		if be.Stage != "" {
			attrs = append(attrs, slog.String("stage", be.Stage))
		}
		for k, v := range be.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if be.Cause != nil {
			attrs = append(attrs, slog.String("error", be.Cause.Error()))
		}

		a.logger.LogAttrs(context.Background(), a.levelFor(be.Severity), be.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func (a *CLIErrorAdapter) levelFor(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func isProgramExit(err error) bool {
	be, ok := As(err)
	return ok && be.Category == CategoryLaunch && be.ExitCode != 0
}
