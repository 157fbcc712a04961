// Package source acquires a template into a fresh destination directory,
// either by cloning it with the version-control client or by copying a
// local folder.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Acquirer materializes src at dest. dest must not exist beforehand.
// Acquirers never clean up a partially written destination.
type Acquirer interface {
	Acquire(ctx context.Context, src, dest string) error
}

// Strategy selects how a template is acquired.
type Strategy string

const (
	// StrategyAuto copies plain local directories and clones everything else.
	StrategyAuto  Strategy = "auto"
	StrategyClone Strategy = "clone"
	StrategyCopy  Strategy = "copy"
)

// ParseStrategy validates a strategy name. Empty means StrategyAuto.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyAuto:
		return StrategyAuto, nil
	case StrategyClone:
		return StrategyClone, nil
	case StrategyCopy:
		return StrategyCopy, nil
	default:
		return "", fmt.Errorf("unknown strategy '%s' — supported: auto, clone, copy", s)
	}
}

// Resolve turns StrategyAuto into a concrete strategy for src. A local
// directory that is not a git work tree is copied; remote references and
// local repositories are cloned so only committed content is used.
func Resolve(strategy Strategy, src string) Strategy {
	if strategy != StrategyAuto && strategy != "" {
		return strategy
	}
	if IsLocalDir(src) && !isWorkTree(src) {
		return StrategyCopy
	}
	return StrategyClone
}

// IsLocalDir reports whether src names an existing directory.
func IsLocalDir(src string) bool {
	info, err := os.Stat(src)
	return err == nil && info.IsDir()
}

func isWorkTree(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// SourceError represents a failed acquisition.
type SourceError struct {
	Source    string
	Operation string
	Err       error
	Hint      string
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("%s: %s failed: %s", e.Source, e.Operation, e.Err)
	if e.Hint != "" {
		msg += " — " + e.Hint
	}
	return msg
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
