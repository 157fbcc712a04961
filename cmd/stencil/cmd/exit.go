package cmd

import (
	"context"
	"errors"

	"github.com/bianoble/stencil/internal/config"
	"github.com/bianoble/stencil/internal/engine"
)

// Process exit codes.
const (
	exitOK     = 0
	exitUsage  = 1
	exitInput  = 2
	exitFailed = 3
)

// exitError pins an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by Execute to a process exit code:
// 1 for usage problems, 2 for an unusable replacements or config file,
// 3 when generation or apply failed.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	var rerr *config.ReplacementsError
	var verr *config.ValidationError
	if errors.As(err, &rerr) || errors.As(err, &verr) {
		return exitInput
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return exitFailed
	}

	switch engine.KindOf(err) {
	case engine.KindInvalidRequest:
		return exitUsage
	case engine.KindDestinationExists, engine.KindAcquisitionFailed, engine.KindInstallFailed:
		return exitFailed
	}

	// Argument and flag errors raised by cobra.
	return exitUsage
}
