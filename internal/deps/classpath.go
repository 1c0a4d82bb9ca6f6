package deps

import (
	"runtime"
	"strings"
)

// OSFamily is the host operating system family that decides classpath syntax.
type OSFamily string

const (
	FamilyWindows OSFamily = "windows"
	FamilyUnix    OSFamily = "unix"
)

// FamilyOf maps a GOOS value to its OS family.
func FamilyOf(goos string) OSFamily {
	if strings.Contains(strings.ToLower(goos), "windows") {
		return FamilyWindows
	}
	return FamilyUnix
}

// HostFamily returns the family of the running host.
func HostFamily() OSFamily {
	return FamilyOf(runtime.GOOS)
}

// Separator returns the classpath entry separator for family.
func Separator(family OSFamily) string {
	if family == FamilyWindows {
		return ";"
	}
	return ":"
}
