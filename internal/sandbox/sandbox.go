// Package sandbox confines filesystem writes to a generated destination tree.
package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidatePath checks that relPath, joined onto root, stays inside root after
// symlinks are resolved. Returns the resolved absolute path.
func ValidatePath(root, relPath string) (string, error) {
	realRoot, err := resolveRoot(root)
	if err != nil {
		return "", err
	}

	candidate := filepath.Clean(filepath.Join(realRoot, relPath))

	// The path may not exist yet, so resolve as much as we can.
	resolved, err := resolveExistingPath(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}

	if !within(realRoot, resolved) {
		return "", fmt.Errorf("path '%s' resolves to '%s' which is outside the destination '%s'", relPath, resolved, realRoot)
	}
	return resolved, nil
}

// Rel converts an absolute path under root into a root-relative path.
func Rel(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving destination: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path '%s' is outside the destination '%s'", path, root)
	}
	return rel, nil
}

// Contains reports whether child is root itself or lies beneath it.
// Both paths are made absolute and cleaned; symlinks are resolved where they exist.
func Contains(root, child string) bool {
	realRoot, err := resolveRoot(root)
	if err != nil {
		return false
	}
	absChild, err := filepath.Abs(child)
	if err != nil {
		return false
	}
	resolved, err := resolveExistingPath(filepath.Clean(absChild))
	if err != nil {
		return false
	}
	return within(realRoot, resolved)
}

func within(realRoot, resolved string) bool {
	// Trailing separator so "dest2" is not treated as inside "dest".
	rootPrefix := realRoot + string(filepath.Separator)
	return resolved == realRoot || strings.HasPrefix(resolved, rootPrefix)
}

func resolveRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving destination: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving destination symlinks: %w", err)
	}
	return realRoot, nil
}

// resolveExistingPath resolves symlinks for the longest existing prefix of
// path and appends the non-existing suffix.
func resolveExistingPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(path)
	if dir == path {
		return path, nil
	}

	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, filepath.Base(path)), nil
}

// SafeWrite atomically writes content to relPath inside root, creating parent
// directories as needed. The file is written to a temp file in the same
// directory, then renamed into place.
func SafeWrite(root, relPath string, content []byte, perm os.FileMode) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(resolved)
	if _, err := ValidatePath(root, filepath.Dir(relPath)); err != nil {
		return fmt.Errorf("parent directory escapes destination: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".stencil-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, resolved); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", resolved, err)
	}

	success = true
	return nil
}

// SafeMkdirAll creates relPath and any parents inside root.
func SafeMkdirAll(root, relPath string, perm os.FileMode) error {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return err
	}
	return os.MkdirAll(resolved, perm)
}

// SafeSymlink creates a symlink at relPath inside root pointing at target.
// The link itself must lie inside root; its target is copied verbatim.
func SafeSymlink(root, relPath, target string) error {
	resolved, err := ValidatePath(root, filepath.Dir(relPath))
	if err != nil {
		return err
	}
	return os.Symlink(target, filepath.Join(resolved, filepath.Base(relPath)))
}
