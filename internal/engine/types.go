package engine

import (
	"errors"
	"fmt"

	"github.com/bianoble/stencil/internal/source"
)

// Kind classifies a fatal generation error.
type Kind string

const (
	KindInvalidRequest    Kind = "invalid_request"
	KindDestinationExists Kind = "destination_exists"
	KindAcquisitionFailed Kind = "acquisition_failed"
	KindInstallFailed     Kind = "install_failed"
)

func (k Kind) describe() string {
	switch k {
	case KindInvalidRequest:
		return "invalid request"
	case KindDestinationExists:
		return "destination already exists"
	case KindAcquisitionFailed:
		return "acquisition failed"
	case KindInstallFailed:
		return "install failed"
	default:
		return string(k)
	}
}

// Sentinels for errors.Is. Any *Error matches the sentinel of the same Kind.
var (
	ErrInvalidRequest    = &Error{Kind: KindInvalidRequest}
	ErrDestinationExists = &Error{Kind: KindDestinationExists}
	ErrAcquisitionFailed = &Error{Kind: KindAcquisitionFailed}
	ErrInstallFailed     = &Error{Kind: KindInstallFailed}
)

// Error is a fatal error that aborted an operation.
type Error struct {
	Kind Kind
	Path string
	Err  error
	Hint string
}

func (e *Error) Error() string {
	msg := e.Kind.describe()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += " — " + e.Hint
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func invalidf(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Err: fmt.Errorf(format, args...)}
}

// FileIOWarning records a file left untouched during substitution.
// Warnings never abort an operation.
type FileIOWarning struct {
	Path string // relative to the walked root
	Op   string // "stat", "read", "binary", "write", "list"
	Err  error
}

func (w FileIOWarning) Error() string {
	return fmt.Sprintf("%s %s: %s", w.Op, w.Path, w.Err)
}

func (w FileIOWarning) Unwrap() error {
	return w.Err
}

// Result is the outcome of a successful generation.
type Result struct {
	Destination string
	Strategy    source.Strategy
	Visited     int
	Rewritten   []string
	Warnings    []FileIOWarning
	Installed   bool
}

// ApplyResult is the outcome of a folder apply.
type ApplyResult struct {
	Folder    string
	Visited   int
	Rewritten []string
	Warnings  []FileIOWarning
}
