package runner

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell tests require a unix shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &out}

	code, err := r.Run(context.Background(), "sh", []string{"-c", "echo hello"}, "")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", out.String())
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	requireShell(t)
	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	code, err := r.Run(context.Background(), "sh", []string{"-c", "exit 7"}, "")
	require.NoError(t, err, "a process that ran and failed is not a runner error")
	assert.Equal(t, 7, code)
}

func TestExecRunnerWorkingDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	var out bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &bytes.Buffer{}}

	code, err := r.Run(context.Background(), "sh", []string{"-c", "pwd -P"}, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out.String()))
}

func TestExecRunnerEnv(t *testing.T) {
	requireShell(t)
	var out bytes.Buffer
	r := &ExecRunner{Stdout: &out, Stderr: &bytes.Buffer{}, Env: []string{"STENCIL_RUNNER_TEST=yes"}}

	_, err := r.Run(context.Background(), "sh", []string{"-c", "printf %s \"$STENCIL_RUNNER_TEST\""}, "")
	require.NoError(t, err)
	assert.Equal(t, "yes", out.String())
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r := &ExecRunner{}
	code, err := r.Run(context.Background(), "stencil-definitely-not-a-real-binary", nil, "")
	require.Error(t, err)
	assert.Equal(t, -1, code)
	assert.Contains(t, err.Error(), "stencil-definitely-not-a-real-binary")
}

func TestExecRunnerCanceled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &ExecRunner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	_, err := r.Run(ctx, "sh", []string{"-c", "sleep 5"}, "")
	require.Error(t, err)
}
