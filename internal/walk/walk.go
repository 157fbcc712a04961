// Package walk enumerates template files eligible for substitution.
package walk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MetadataDir is the version-control directory that is never descended into.
const MetadataDir = ".git"

// Extensions is a set of lower-cased file extensions, each including the leading dot.
type Extensions map[string]bool

// NewExtensions builds an Extensions set. Entries are normalized to lower case.
func NewExtensions(exts ...string) Extensions {
	set := make(Extensions, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = true
	}
	return set
}

// Match reports whether the file name carries one of the extensions.
func (e Extensions) Match(name string) bool {
	return e[strings.ToLower(filepath.Ext(name))]
}

// TextExtensions is the fixed allowlist of files rewritten during substitution.
// Binary assets and lockfiles are never listed here.
func TextExtensions() Extensions {
	return NewExtensions(".json", ".md", ".tsx", ".ts", ".js", ".jsx", ".env", ".txt")
}

// VisitFunc is called once per matching file with its full path.
type VisitFunc func(path string) error

// Failure records a visitor error for a single file. The walk continues past it.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Walk visits every file under root whose extension is in exts, depth-first.
// Directories named MetadataDir are pruned. Visits are sequential: each visitor
// call returns before the next entry is considered.
//
// Visitor errors are collected and returned as failures; they never stop the walk.
// An error listing a directory aborts the walk and names that directory.
func Walk(ctx context.Context, root string, exts Extensions, visit VisitFunc) ([]Failure, error) {
	var failures []Failure
	err := walkDir(ctx, root, exts, visit, &failures)
	return failures, err
}

func walkDir(ctx context.Context, dir string, exts Extensions, visit VisitFunc, failures *[]Failure) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	for _, ent := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		full := filepath.Join(dir, ent.Name())
		if ent.IsDir() {
			if ent.Name() == MetadataDir {
				continue
			}
			if err := walkDir(ctx, full, exts, visit, failures); err != nil {
				return err
			}
			continue
		}

		if !exts.Match(ent.Name()) {
			continue
		}
		if visitErr := visit(full); visitErr != nil {
			*failures = append(*failures, Failure{Path: full, Err: visitErr})
		}
	}
	return nil
}
