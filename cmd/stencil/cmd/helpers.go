package cmd

import (
	"fmt"
	"strings"

	"github.com/bianoble/stencil/internal/config"
	"github.com/bianoble/stencil/internal/engine"
	"github.com/bianoble/stencil/internal/replace"
	"github.com/bianoble/stencil/internal/ui"
	"github.com/bianoble/stencil/pkg/stencil"
)

// out is configured by the root command before any subcommand runs.
var out *ui.Printer

// printer returns the configured printer, or a plain one when a command
// runs without the root pre-run (tests).
func printer() *ui.Printer {
	if out == nil {
		out = ui.New(ui.Options{Quiet: quiet, Verbose: verbosity > 0, NoColor: noColor})
	}
	return out
}

// loadConfig reads and validates the layered tool configuration.
func loadConfig() (*config.Config, error) {
	cfg, layers, err := config.Load(config.DiscoverOptions{
		ProjectPath: configPath,
		NoInherit:   config.EnvNoInherit(),
	})
	if err != nil {
		return nil, withCode(exitInput, err)
	}
	for _, l := range layers {
		if l.Loaded {
			printer().Detail("config: %s (%s)", l.Path, l.Level)
		}
	}
	return cfg, nil
}

// loadReplacements reads the replacement set and applies --set overrides on
// top. An empty path yields only the overrides.
func loadReplacements(path string, overrides []string) (replace.Set, error) {
	set := replace.Set{}
	if path != "" {
		loaded, err := config.LoadReplacements(path)
		if err != nil {
			return nil, withCode(exitInput, err)
		}
		set = loaded
	}

	extra, err := parseOverrides(overrides)
	if err != nil {
		return nil, err
	}
	return replace.Merge(set, extra), nil
}

// parseOverrides turns KEY=VALUE pairs into a Set. The value may contain '='.
func parseOverrides(pairs []string) (replace.Set, error) {
	set := make(replace.Set, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, withCode(exitUsage, fmt.Errorf("invalid --set %q: expected KEY=VALUE", pair))
		}
		set[key] = value
	}
	return set, nil
}

// newClient builds a library client from the loaded config.
func newClient(cfg *config.Config) (*stencil.Client, error) {
	client, err := stencil.New(stencil.Options{Config: cfg})
	if err != nil {
		return nil, withCode(exitInput, err)
	}
	return client, nil
}

// reportFiles prints per-file outcomes in verbose mode.
func reportFiles(rewritten []string, warnings []engine.FileIOWarning) {
	p := printer()
	for _, rel := range rewritten {
		p.Detail("rewrote %s", rel)
	}
	for _, w := range warnings {
		p.Warn("%s", w)
	}
}
