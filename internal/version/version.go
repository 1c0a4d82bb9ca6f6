// Package version carries build metadata stamped in through ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/bootbuild/internal/version.Version=v0.3.0" ./cmd/bootbuild
package version

import "runtime/debug"

// Version is the bootbuild release, "dev" for unstamped builds.
var Version = "dev"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	commit := GitCommit
	if commit == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					commit = s.Value
				}
			}
		}
	}
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return "bootbuild " + Version + " (commit " + commit + ", built " + BuildTime + ")"
}
