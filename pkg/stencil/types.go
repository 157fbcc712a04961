package stencil

import (
	"github.com/bianoble/stencil/internal/config"
	"github.com/bianoble/stencil/internal/engine"
	"github.com/bianoble/stencil/internal/replace"
	"github.com/bianoble/stencil/internal/runner"
)

// Type aliases re-export internal types as the public API.

type Set = replace.Set
type Config = config.Config
type Runner = runner.Runner
type Result = engine.Result
type ApplyResult = engine.ApplyResult
type FileIOWarning = engine.FileIOWarning
type Error = engine.Error
type Kind = engine.Kind
type ReplacementsError = config.ReplacementsError
type ValidationError = config.ValidationError

const (
	KindInvalidRequest    = engine.KindInvalidRequest
	KindDestinationExists = engine.KindDestinationExists
	KindAcquisitionFailed = engine.KindAcquisitionFailed
	KindInstallFailed     = engine.KindInstallFailed
)

var (
	ErrInvalidRequest    = engine.ErrInvalidRequest
	ErrDestinationExists = engine.ErrDestinationExists
	ErrAcquisitionFailed = engine.ErrAcquisitionFailed
	ErrInstallFailed     = engine.ErrInstallFailed
)

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	return engine.KindOf(err)
}

// DefaultConfig returns the built-in tool configuration.
func DefaultConfig() Config {
	return config.Default()
}
