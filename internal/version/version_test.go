package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsAreSet(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}

func TestString(t *testing.T) {
	old := [3]string{Version, BuildTime, GitCommit}
	t.Cleanup(func() { Version, BuildTime, GitCommit = old[0], old[1], old[2] })

	Version, BuildTime, GitCommit = "v1.2.3", "2026-01-02", "0123456789abcdef"
	assert.Equal(t, "bootbuild v1.2.3 (commit 01234567, built 2026-01-02)", String())
}
