package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/stencil/internal/replace"
)

// ReplacementsError reports an unreadable or malformed replacements file.
type ReplacementsError struct {
	Path string
	Err  error
}

func (e *ReplacementsError) Error() string {
	return fmt.Sprintf("replacements file %s: %s", e.Path, e.Err)
}

func (e *ReplacementsError) Unwrap() error {
	return e.Err
}

// LoadReplacements reads a flat key/value file into a replace.Set. The format
// is chosen by extension: .yaml/.yml, .toml, .env, and JSON for anything else.
func LoadReplacements(path string) (replace.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReplacementsError{Path: path, Err: err}
	}

	set, err := ParseReplacements(data, FormatFor(path))
	if err != nil {
		return nil, &ReplacementsError{Path: path, Err: err}
	}
	return set, nil
}

// Format identifies a replacements file syntax.
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatDotenv Format = "env"
)

// FormatFor picks the format from a file name.
func FormatFor(path string) Format {
	base := strings.ToLower(filepath.Base(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".env":
		return FormatDotenv
	}
	if base == ".env" || strings.HasPrefix(base, ".env.") {
		return FormatDotenv
	}
	return FormatJSON
}

// ParseReplacements decodes data in the given format. Only flat mappings of
// scalars are accepted; numbers and booleans are converted to text.
func ParseReplacements(data []byte, format Format) (replace.Set, error) {
	if format == FormatDotenv {
		if err := checkDotenvLiteral(data); err != nil {
			return nil, err
		}
		values, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing dotenv: %w", err)
		}
		return replace.Set(values), nil
	}

	var raw map[string]interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing toml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			return nil, fmt.Errorf("parsing json: trailing data after the top-level object")
		}
	}

	return flatten(raw)
}

// checkDotenvLiteral rejects values that godotenv would expand. A '$' is
// allowed inside single quotes or when escaped as \$.
func checkDotenvLiteral(data []byte) error {
	var bad []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if strings.HasPrefix(value, "'") {
			continue
		}
		if hasUnescapedDollar(value) {
			bad = append(bad, strings.TrimSpace(key))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("parsing dotenv: values containing '$' must be single-quoted or escaped as \\$; keys: %s", strings.Join(bad, ", "))
	}
	return nil
}

func hasUnescapedDollar(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '$':
			return true
		}
	}
	return false
}

func flatten(raw map[string]interface{}) (replace.Set, error) {
	set := make(replace.Set, len(raw))
	var bad []string
	for k, v := range raw {
		s, ok := scalarText(v)
		if !ok {
			bad = append(bad, k)
			continue
		}
		set[k] = s
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("values must be strings, numbers or booleans; invalid keys: %s", strings.Join(bad, ", "))
	}
	return set, nil
}

func scalarText(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}
