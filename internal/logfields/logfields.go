package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyVariant    = "variant"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyTool       = "tool"
	KeyArgs       = "args"
	KeyExitCode   = "exit_code"
	KeyMainClass  = "main_class"
	KeyArchives   = "archives"
	KeyUnits      = "units"
	KeyArtifact   = "artifact"
	KeyDigest     = "digest"
	KeyBytes      = "bytes"
	KeyRevision   = "revision"
	KeyPackager   = "packager"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Variant(name string) slog.Attr    { return slog.String(KeyVariant, name) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Tool(name string) slog.Attr       { return slog.String(KeyTool, name) }
func Args(args []string) slog.Attr     { return slog.Any(KeyArgs, args) }
func ExitCode(code int) slog.Attr      { return slog.Int(KeyExitCode, code) }
func MainClass(name string) slog.Attr  { return slog.String(KeyMainClass, name) }
func Archives(n int) slog.Attr         { return slog.Int(KeyArchives, n) }
func Units(n int) slog.Attr            { return slog.Int(KeyUnits, n) }
func Artifact(p string) slog.Attr      { return slog.String(KeyArtifact, p) }
func Digest(d string) slog.Attr        { return slog.String(KeyDigest, d) }
func Bytes(n int64) slog.Attr          { return slog.Int64(KeyBytes, n) }
func Revision(rev string) slog.Attr    { return slog.String(KeyRevision, rev) }
func Packager(kind string) slog.Attr   { return slog.String(KeyPackager, kind) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
