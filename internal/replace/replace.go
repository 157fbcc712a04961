// Package replace substitutes placeholder tokens in template text.
//
// Each key in a Set is matched two ways: as a delimited token ({{KEY}},
// {{ KEY }}) and as a plain substring anywhere in the text. The substring
// match ignores word boundaries, so key "APP" also rewrites "MY_APP_NAME".
package replace

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Set maps placeholder keys to replacement values. Empty keys are ignored.
type Set map[string]string

// Keys returns the non-empty keys, longest first and lexicographically among
// keys of equal length. A key is therefore processed before any shorter key
// it contains.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Merge returns a new Set with entries from override taking precedence over base.
func Merge(base, override Set) Set {
	merged := make(Set, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// Mode selects which passes run.
type Mode int

const (
	// ModeApply runs the delimited and literal passes. Used to retrofit
	// replacements onto an already generated tree.
	ModeApply Mode = iota
	// ModeGenerate additionally collapses delimited tokens that wrap a
	// substituted value ({{ VALUE }} -> VALUE).
	ModeGenerate
)

func (m Mode) String() string {
	switch m {
	case ModeApply:
		return "apply"
	case ModeGenerate:
		return "generate"
	default:
		return "unknown"
	}
}

type rule struct {
	key       string
	value     string
	delimited *regexp.Regexp
	leftover  *regexp.Regexp // nil in ModeApply
}

// Engine applies a Set to text. Patterns are compiled once in New and the
// Engine is safe for reuse across files.
type Engine struct {
	rules []rule
	mode  Mode
}

// New compiles the patterns for every non-empty key in set.
func New(set Set, mode Mode) *Engine {
	e := &Engine{mode: mode}
	for _, k := range set.Keys() {
		v := set[k]
		r := rule{
			key:       k,
			value:     v,
			delimited: delimitedPattern(k),
		}
		if mode == ModeGenerate {
			r.leftover = delimitedPattern(v)
		}
		e.rules = append(e.rules, r)
	}
	return e
}

// Mode returns the pass configuration of the engine.
func (e *Engine) Mode() Mode {
	return e.mode
}

// Apply runs every pass for every key and reports whether anything was replaced.
func (e *Engine) Apply(text string) (string, bool) {
	changed := false
	for _, r := range e.rules {
		if r.delimited.MatchString(text) {
			text = r.delimited.ReplaceAllLiteralString(text, r.value)
			changed = true
		}

		if strings.Contains(text, r.key) {
			text = strings.ReplaceAll(text, r.key, r.value)
			changed = true
		}

		if r.leftover != nil && r.leftover.MatchString(text) {
			text = r.leftover.ReplaceAllLiteralString(text, r.value)
			changed = true
		}
	}
	return text, changed
}

// ApplyTo is a convenience for a single text block.
func ApplyTo(text string, set Set, mode Mode) (string, bool) {
	return New(set, mode).Apply(text)
}

// delimitedPattern matches s wrapped in double braces with optional
// surrounding whitespace. s is always escaped before it reaches the pattern.
func delimitedPattern(s string) *regexp.Regexp {
	return regexp.MustCompile(`\{\{\s*` + Escape(s) + `\s*\}\}`)
}

// Escape quotes every pattern metacharacter in s.
func Escape(s string) string {
	return regexp.QuoteMeta(s)
}

// IsText reports whether content looks like text that is safe to rewrite:
// valid UTF-8 with no NUL bytes.
func IsText(content []byte) bool {
	return utf8.Valid(content) && !bytes.ContainsRune(content, 0)
}
