package process

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive /bin/sh")
	}
	if _, err := LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_CaptureExitCode(t *testing.T) {
	requireShell(t)
	r := &ExecRunner{}

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestExecRunner_StreamTeesOutput(t *testing.T) {
	requireShell(t)
	var out, errOut bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &errOut}

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo hello; echo warn >&2"},
		Mode: Stream,
	})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "hello\n", string(res.Stdout))
	assert.Equal(t, "hello\n", out.String())
	assert.Equal(t, "warn\n", errOut.String())
}

func TestExecRunner_InheritPassesStreams(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	r := &ExecRunner{Stdin: strings.NewReader("ping\n"), Stdout: &out}

	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "read line; echo got-$line"},
		Mode: Inherit,
	})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Empty(t, res.Stdout, "inherited output is not captured")
	assert.Equal(t, "got-ping\n", out.String())
}

func TestExecRunner_WorkingDirectory(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	r := &ExecRunner{}

	res, err := r.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir})
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(string(res.Stdout)))
}

func TestExecRunner_ToolNotFound(t *testing.T) {
	r := &ExecRunner{}
	_, err := r.Run(context.Background(), Command{Name: "bootbuild-no-such-tool-xyz"})
	require.ErrorIs(t, err, ErrToolNotFound)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "capture", Capture.String())
	assert.Equal(t, "stream", Stream.String())
	assert.Equal(t, "inherit", Inherit.String())
}
