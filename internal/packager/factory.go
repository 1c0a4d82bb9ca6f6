package packager

import (
	"fmt"

	"git.home.luguber.info/inful/bootbuild/internal/process"
)

// New returns the packager backend named kind. tool overrides the jar tool
// executable; createdBy is recorded by the native backend.
func New(kind string, runner process.Runner, tool, createdBy string) (Packager, error) {
	switch kind {
	case "", KindJar:
		return NewJarTool(runner, tool), nil
	case KindNative:
		return NewNative(createdBy), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
