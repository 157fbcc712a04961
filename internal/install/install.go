// Package install bootstraps a generated project by running the package
// manager's install command in the destination.
package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bianoble/stencil/internal/runner"
)

// Installer runs Command with Args in the destination when Manifest exists
// at the destination root.
type Installer struct {
	Runner   runner.Runner
	Command  string
	Args     []string
	Manifest string
}

// Outcome describes what Install did.
type Outcome int

const (
	// Skipped means no manifest was found; this is not an error.
	Skipped Outcome = iota
	Installed
)

// Install runs the install command in dir. A missing manifest is a no-op.
// A non-zero exit or a failure to start the command is returned as an error.
func (i *Installer) Install(ctx context.Context, dir string) (Outcome, error) {
	manifest := i.ManifestPath(dir)
	if _, err := os.Stat(manifest); errors.Is(err, fs.ErrNotExist) {
		return Skipped, nil
	} else if err != nil {
		return Skipped, fmt.Errorf("checking %s: %w", manifest, err)
	}

	if i.Runner == nil {
		return Skipped, fmt.Errorf("no process runner configured")
	}

	code, err := i.Runner.Run(ctx, i.Command, i.Args, dir)
	if err != nil {
		return Skipped, fmt.Errorf("running %s: %w", i.Command, err)
	}
	if code != 0 {
		return Skipped, fmt.Errorf("%s %v exited with status %d", i.Command, i.Args, code)
	}
	return Installed, nil
}

// ManifestPath is the manifest location for dir.
func (i *Installer) ManifestPath(dir string) string {
	return filepath.Join(dir, i.Manifest)
}
