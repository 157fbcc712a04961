// Package runner invokes external processes such as the version-control
// client and the package manager.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/bianoble/stencil/internal/logging"
)

// Runner runs a command to completion and returns its exit status.
// A non-nil error means the process could not be started or waited on;
// a process that ran and failed reports a non-zero exit code with a nil error.
type Runner interface {
	Run(ctx context.Context, name string, args []string, dir string) (int, error)
}

// ExecRunner runs commands with os/exec. Standard streams default to the
// current process's streams so child output stays visible to the operator.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Env is appended to the current environment.
	Env []string

	Logger *zerolog.Logger
}

// Run executes name with args in dir and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, dir string) (int, error) {
	logger := r.logger()
	logger.Debug().Str("command", name).Strs("args", args).Str("dir", dir).Msg("Executing command")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	if r.Stdin != nil {
		cmd.Stdin = r.Stdin
	}
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = orDefault(r.Stderr, os.Stderr)
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ctx.Err() != nil {
			return exitErr.ExitCode(), ctx.Err()
		}
		logger.Debug().Str("command", name).Int("exit_code", exitErr.ExitCode()).Msg("Command failed")
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("running %s: %w", name, err)
}

func (r *ExecRunner) logger() *zerolog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	l := logging.GetLogger("runner")
	return &l
}

func orDefault(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
