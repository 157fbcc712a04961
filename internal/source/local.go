package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bianoble/stencil/internal/sandbox"
	"github.com/bianoble/stencil/internal/walk"
)

// LocalAcquirer copies a local template directory. The version-control
// metadata directory is not copied. File modes and symlinks are preserved;
// other special files are skipped.
type LocalAcquirer struct{}

// Acquire copies src into a newly created dest.
func (l *LocalAcquirer) Acquire(ctx context.Context, src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return &SourceError{Source: src, Operation: "copy", Err: err, Hint: "check that the template path exists"}
	}
	if !info.IsDir() {
		return &SourceError{Source: src, Operation: "copy", Err: fmt.Errorf("not a directory")}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &SourceError{Source: src, Operation: "copy", Err: fmt.Errorf("creating parent of %s: %w", dest, err)}
	}
	if err := os.Mkdir(dest, info.Mode().Perm()|0700); err != nil {
		return &SourceError{Source: src, Operation: "copy", Err: fmt.Errorf("creating %s: %w", dest, err)}
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == src {
			return nil
		}
		if d.IsDir() && d.Name() == walk.MetadataDir {
			return filepath.SkipDir
		}

		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		return copyEntry(path, dest, rel, d)
	})
	if err != nil {
		return &SourceError{Source: src, Operation: "copy", Err: err}
	}
	return nil
}

func copyEntry(path, destRoot, rel string, d fs.DirEntry) error {
	switch {
	case d.IsDir():
		info, err := d.Info()
		if err != nil {
			return err
		}
		return sandbox.SafeMkdirAll(destRoot, rel, info.Mode().Perm()|0700)

	case d.Type()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return err
		}
		return sandbox.SafeSymlink(destRoot, rel, target)

	case d.Type().IsRegular():
		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, destRoot, rel, info.Mode().Perm())

	default:
		return nil
	}
}

func copyFile(path, destRoot, rel string, perm os.FileMode) error {
	target, err := sandbox.ValidatePath(destRoot, rel)
	if err != nil {
		return err
	}

	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copying %s: %w", rel, err)
	}
	return out.Close()
}
