package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bianoble/stencil/internal/logging"
	"github.com/bianoble/stencil/internal/replace"
)

// ApplyEngine retrofits replacements onto an existing folder. It runs the
// delimited and literal passes only; generation also collapses leftover
// tokens around substituted values.
type ApplyEngine struct {
	Logger *zerolog.Logger
}

// Apply rewrites eligible files under folder in place.
func (e *ApplyEngine) Apply(ctx context.Context, folder string, set replace.Set) (*ApplyResult, error) {
	logger := e.logger()
	defer logging.LogOperationStart(*logger, "apply")()

	if strings.TrimSpace(folder) == "" {
		return nil, invalidf("folder is required")
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, newError(KindInvalidRequest, folder, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, newError(KindInvalidRequest, abs, err)
	}
	if !info.IsDir() {
		return nil, newError(KindInvalidRequest, abs, fmt.Errorf("not a directory"))
	}

	sub, err := substitute(ctx, abs, replace.New(set, replace.ModeApply), logger)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("folder", abs).Int("rewritten", len(sub.rewritten)).Msg("Applied replacements")
	return &ApplyResult{
		Folder:    abs,
		Visited:   sub.visited,
		Rewritten: sub.rewritten,
		Warnings:  sub.warnings,
	}, nil
}

func (e *ApplyEngine) logger() *zerolog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	l := logging.GetLogger("engine")
	return &l
}
