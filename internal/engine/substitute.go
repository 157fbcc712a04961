package engine

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"

	"github.com/bianoble/stencil/internal/replace"
	"github.com/bianoble/stencil/internal/sandbox"
	"github.com/bianoble/stencil/internal/walk"
)

var errBinary = errors.New("content is not text")

// substitution accumulates the outcome of one substitution walk.
type substitution struct {
	visited   int
	rewritten []string
	warnings  []FileIOWarning
}

// substitute walks root and rewrites every eligible file the engine changes.
// Per-file problems become warnings; only a directory listing error or
// cancellation is returned.
func substitute(ctx context.Context, root string, eng *replace.Engine, logger *zerolog.Logger) (*substitution, error) {
	s := &substitution{}

	failures, err := walk.Walk(ctx, root, walk.TextExtensions(), func(path string) error {
		s.visited++
		rel := relOrSelf(root, path)

		changed, fileErr := rewriteFile(root, rel, path, eng)
		if fileErr != nil {
			return fileErr
		}
		if changed {
			s.rewritten = append(s.rewritten, rel)
			logger.Debug().Str("file", rel).Msg("Rewrote file")
		}
		return nil
	})

	for _, f := range failures {
		var w FileIOWarning
		if !errors.As(f.Err, &w) {
			w = FileIOWarning{Path: relOrSelf(root, f.Path), Op: "visit", Err: f.Err}
		}
		logger.Debug().Str("file", w.Path).Str("op", w.Op).Err(w.Err).Msg("Skipped file")
		s.warnings = append(s.warnings, w)
	}

	return s, err
}

func rewriteFile(root, rel, path string, eng *replace.Engine) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, FileIOWarning{Path: rel, Op: "stat", Err: err}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, FileIOWarning{Path: rel, Op: "read", Err: err}
	}
	if !replace.IsText(content) {
		return false, FileIOWarning{Path: rel, Op: "binary", Err: errBinary}
	}

	out, changed := eng.Apply(string(content))
	if !changed {
		return false, nil
	}

	if err := sandbox.SafeWrite(root, rel, []byte(out), info.Mode().Perm()); err != nil {
		return false, FileIOWarning{Path: rel, Op: "write", Err: err}
	}
	return true, nil
}

func relOrSelf(root, path string) string {
	rel, err := sandbox.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
