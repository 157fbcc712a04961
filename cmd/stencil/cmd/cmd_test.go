package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bianoble/stencil/internal/config"
	"github.com/bianoble/stencil/internal/engine"
)

// execute runs the root command with args and fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STENCIL_NO_INHERIT", "1")

	configPath, verbosity, quiet, noColor = "", 0, false, true
	generateNoInstall, generateStrategy, initForce = false, "auto", false
	generateSet, applySet = nil, nil

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "stencil.yaml"), "--no-color"}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func setupTemplate(t *testing.T) (tmpl, replacements string) {
	t.Helper()
	dir := t.TempDir()
	tmpl = filepath.Join(dir, "starter")
	writeFile(t, filepath.Join(tmpl, "package.json"), `{"name": "{{ APP_SLUG }}"}`)
	writeFile(t, filepath.Join(tmpl, "README.md"), "# APP_NAME\n")
	replacements = filepath.Join(dir, "replacements.json")
	writeFile(t, replacements, `{"APP_NAME": "Widget", "APP_SLUG": "widget"}`)
	return tmpl, replacements
}

func TestGenerateCommandCopiesAndSubstitutes(t *testing.T) {
	tmpl, replacements := setupTemplate(t)
	dest := filepath.Join(t.TempDir(), "widget")

	output, err := execute(t, "generate", tmpl, dest, replacements, "--no-install")
	if err != nil {
		t.Fatalf("generate: %v\n%s", err, output)
	}
	if got := readFile(t, filepath.Join(dest, "package.json")); got != `{"name": "widget"}` {
		t.Errorf("package.json = %s", got)
	}
	if got := readFile(t, filepath.Join(dest, "README.md")); got != "# Widget\n" {
		t.Errorf("README.md = %q", got)
	}
	if !strings.Contains(output, "Generated "+dest) {
		t.Errorf("output should report the destination:\n%s", output)
	}
	if !strings.Contains(output, "2 of 2 files") {
		t.Errorf("output should report rewritten counts:\n%s", output)
	}
}

func TestGenerateCommandWithoutReplacements(t *testing.T) {
	tmpl, _ := setupTemplate(t)
	dest := filepath.Join(t.TempDir(), "plain")

	if _, err := execute(t, "generate", tmpl, dest, "--no-install"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := readFile(t, filepath.Join(dest, "README.md")); got != "# APP_NAME\n" {
		t.Errorf("README.md = %q, want untouched", got)
	}
}

func TestGenerateCommandSetOverridesFile(t *testing.T) {
	tmpl, replacements := setupTemplate(t)
	dest := filepath.Join(t.TempDir(), "gadget")

	_, err := execute(t, "generate", tmpl, dest, replacements, "--no-install", "--set", "APP_NAME=Gad=get")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := readFile(t, filepath.Join(dest, "README.md")); got != "# Gad=get\n" {
		t.Errorf("README.md = %q", got)
	}
	if got := readFile(t, filepath.Join(dest, "package.json")); got != `{"name": "widget"}` {
		t.Errorf("package.json = %s", got)
	}
}

func TestGenerateCommandExitCodes(t *testing.T) {
	tmpl, replacements := setupTemplate(t)
	existing := t.TempDir()
	badReplacements := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, badReplacements, `{"APP": {"nested": true}}`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing arguments", []string{"generate", tmpl}, exitUsage},
		{"unknown strategy", []string{"generate", tmpl, filepath.Join(t.TempDir(), "x"), "--strategy", "rsync", "--no-install"}, exitUsage},
		{"missing replacements file", []string{"generate", tmpl, filepath.Join(t.TempDir(), "x"), "/nonexistent/r.json"}, exitInput},
		{"malformed replacements", []string{"generate", tmpl, filepath.Join(t.TempDir(), "x"), badReplacements}, exitInput},
		{"destination exists", []string{"generate", tmpl, existing, replacements, "--no-install"}, exitFailed},
		{"bad --set", []string{"generate", tmpl, filepath.Join(t.TempDir(), "x"), "--set", "NOEQUALS"}, exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ExitCode(err); got != tt.want {
				t.Errorf("ExitCode = %d, want %d (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestGenerateCommandInvalidConfig(t *testing.T) {
	tmpl, replacements := setupTemplate(t)
	t.Setenv("STENCIL_GIT_DEPTH", "0")

	_, err := execute(t, "generate", tmpl, filepath.Join(t.TempDir(), "x"), replacements)
	if got := ExitCode(err); got != exitInput {
		t.Errorf("ExitCode = %d, want %d (err: %v)", got, exitInput, err)
	}
}

func TestApplyCommand(t *testing.T) {
	tmpl, replacements := setupTemplate(t)

	output, err := execute(t, "apply", tmpl, replacements)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := readFile(t, filepath.Join(tmpl, "README.md")); got != "# Widget\n" {
		t.Errorf("README.md = %q", got)
	}
	if !strings.Contains(output, "Applied replacements to") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestApplyCommandExitCodes(t *testing.T) {
	_, replacements := setupTemplate(t)

	_, err := execute(t, "apply", filepath.Join(t.TempDir(), "missing"), replacements)
	if got := ExitCode(err); got != exitUsage {
		t.Errorf("missing folder: ExitCode = %d, want %d", got, exitUsage)
	}

	_, err = execute(t, "apply", t.TempDir())
	if got := ExitCode(err); got != exitUsage {
		t.Errorf("missing argument: ExitCode = %d, want %d", got, exitUsage)
	}

	_, err = execute(t, "apply", t.TempDir(), "/nonexistent/r.yaml")
	if got := ExitCode(err); got != exitInput {
		t.Errorf("missing replacements: ExitCode = %d, want %d", got, exitInput)
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(output, "stencil dev") {
		t.Errorf("output = %q", output)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"pinned", withCode(exitFailed, errors.New("x")), exitFailed},
		{"replacements", &config.ReplacementsError{Path: "r.json", Err: errors.New("bad")}, exitInput},
		{"validation", &config.ValidationError{Errors: []string{"bad"}}, exitInput},
		{"invalid request", engine.ErrInvalidRequest, exitUsage},
		{"destination exists", fmt.Errorf("wrapped: %w", engine.ErrDestinationExists), exitFailed},
		{"acquisition", engine.ErrAcquisitionFailed, exitFailed},
		{"install", engine.ErrInstallFailed, exitFailed},
		{"canceled", context.Canceled, exitFailed},
		{"cobra usage", errors.New(`unknown flag: --bogus`), exitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
