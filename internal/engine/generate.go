// Package engine sequences template generation: acquisition, substitution
// and the optional install step.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bianoble/stencil/internal/install"
	"github.com/bianoble/stencil/internal/logging"
	"github.com/bianoble/stencil/internal/replace"
	"github.com/bianoble/stencil/internal/sandbox"
	"github.com/bianoble/stencil/internal/source"
)

// Request describes one generation.
type Request struct {
	// Source is a remote repository reference or a local directory.
	Source string
	// Destination must not exist yet.
	Destination  string
	Replacements replace.Set
	// SkipInstall disables the post-generation install step, which runs by default.
	SkipInstall bool
	// Strategy defaults to source.StrategyAuto.
	Strategy source.Strategy
}

// GenerateEngine orchestrates a generation.
type GenerateEngine struct {
	Clone     source.Acquirer
	Copy      source.Acquirer
	Installer *install.Installer
	Logger    *zerolog.Logger
}

// Generate validates req, acquires the template into the destination,
// substitutes replacements and runs the install step. The destination is
// left as-is on failure; nothing is cleaned up.
func (e *GenerateEngine) Generate(ctx context.Context, req Request) (*Result, error) {
	logger := e.logger()
	defer logging.LogOperationStart(*logger, "generate")()

	dest, strategy, err := e.validate(req)
	if err != nil {
		return nil, err
	}
	result := &Result{Destination: dest, Strategy: strategy}

	// Acquire.
	acquirer := e.acquirerFor(strategy)
	if acquirer == nil {
		return nil, invalidf("no acquirer configured for strategy '%s'", strategy)
	}
	logger.Info().Str("source", req.Source).Str("destination", dest).Str("strategy", string(strategy)).Msg("Acquiring template")
	if err := acquirer.Acquire(ctx, req.Source, dest); err != nil {
		return nil, &Error{Kind: KindAcquisitionFailed, Path: req.Source, Err: err, Hint: "remove " + dest + " before retrying"}
	}
	if !source.IsLocalDir(dest) {
		return nil, newError(KindAcquisitionFailed, req.Source, fmt.Errorf("no directory at %s after %s", dest, strategy))
	}

	// Substitute.
	logger.Info().Int("keys", len(req.Replacements.Keys())).Msg("Applying replacements")
	sub, walkErr := substitute(ctx, dest, replace.New(req.Replacements, replace.ModeGenerate), logger)
	result.Visited = sub.visited
	result.Rewritten = sub.rewritten
	result.Warnings = sub.warnings
	if walkErr != nil {
		if isCanceled(walkErr) {
			return nil, walkErr
		}
		// A listing failure only loses part of the tree; generation goes on.
		logger.Warn().Err(walkErr).Msg("Substitution walk stopped early")
		result.Warnings = append(result.Warnings, FileIOWarning{Path: ".", Op: "list", Err: walkErr})
	}

	// Install.
	if req.SkipInstall {
		logger.Info().Msg("Install disabled; skipping")
	} else if e.Installer == nil {
		logger.Debug().Msg("No installer configured; skipping")
	} else {
		logger.Info().Str("command", e.Installer.Command).Str("dir", dest).Msg("Running install")
		outcome, err := e.Installer.Install(ctx, dest)
		if err != nil {
			return nil, &Error{Kind: KindInstallFailed, Path: dest, Err: err, Hint: "the substituted tree is left in place"}
		}
		if outcome == install.Skipped {
			logger.Info().Str("manifest", e.Installer.Manifest).Msg("No manifest found; skipping install")
		}
		result.Installed = outcome == install.Installed
	}

	logger.Info().Str("destination", dest).Int("rewritten", len(result.Rewritten)).Int("warnings", len(result.Warnings)).Msg("Template prepared")
	return result, nil
}

func (e *GenerateEngine) validate(req Request) (string, source.Strategy, error) {
	if strings.TrimSpace(req.Source) == "" {
		return "", "", invalidf("source is required")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return "", "", invalidf("destination is required")
	}

	dest, err := filepath.Abs(req.Destination)
	if err != nil {
		return "", "", newError(KindInvalidRequest, req.Destination, err)
	}

	if _, err := os.Lstat(dest); err == nil {
		return "", "", &Error{Kind: KindDestinationExists, Path: dest, Hint: "choose a new path or remove the existing one"}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", "", newError(KindInvalidRequest, dest, err)
	}

	strategy := source.Resolve(req.Strategy, req.Source)
	if strategy == source.StrategyCopy {
		if !source.IsLocalDir(req.Source) {
			return "", "", newError(KindInvalidRequest, req.Source, fmt.Errorf("copy requires a local directory"))
		}
		if sandbox.Contains(req.Source, dest) {
			return "", "", newError(KindInvalidRequest, dest, fmt.Errorf("destination is inside the template %s", req.Source))
		}
	}
	return dest, strategy, nil
}

func (e *GenerateEngine) acquirerFor(s source.Strategy) source.Acquirer {
	switch s {
	case source.StrategyClone:
		return e.Clone
	case source.StrategyCopy:
		return e.Copy
	default:
		return nil
	}
}

func (e *GenerateEngine) logger() *zerolog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	l := logging.GetLogger("engine")
	return &l
}
