package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds the tool configuration from built-in defaults, the discovered
// config files (user, then project) and STENCIL_* environment variables, in
// increasing precedence. Missing files are skipped.
func Load(opts DiscoverOptions) (*Config, []ConfigLayerInfo, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, nil, fmt.Errorf("loading defaults: %w", err)
	}

	layers := DiscoverPaths(opts)
	for i := range layers {
		layer := &layers[i]
		if _, err := os.Stat(layer.Path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := k.Load(file.Provider(layer.Path), yaml.Parser()); err != nil {
			layer.Err = err
			return nil, layers, fmt.Errorf("loading %s config %s: %w", layer.Level, layer.Path, err)
		}
		layer.Loaded = true
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, layers, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, layers, fmt.Errorf("decoding config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, layers, &ValidationError{Errors: errs}
	}
	return &cfg, layers, nil
}

// envValue maps an environment variable onto a config key. install.args is
// split on whitespace so STENCIL_INSTALL_ARGS="ci --prefer-offline" works.
func envValue(key, value string) (string, interface{}) {
	k := envKey(key)
	if k == "install.args" {
		return k, strings.Fields(value)
	}
	return k, value
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if strings.TrimSpace(cfg.Git.Command) == "" {
		errs = append(errs, "git.command: must not be empty")
	}
	if cfg.Git.Depth < 1 {
		errs = append(errs, fmt.Sprintf("git.depth: must be at least 1, got %d", cfg.Git.Depth))
	}
	if strings.TrimSpace(cfg.Install.Command) == "" {
		errs = append(errs, "install.command: must not be empty")
	}
	if strings.TrimSpace(cfg.Install.Manifest) == "" {
		errs = append(errs, "install.manifest: must not be empty")
	} else if strings.ContainsAny(cfg.Install.Manifest, `/\`) {
		errs = append(errs, fmt.Sprintf("install.manifest: '%s' must be a file name at the destination root", cfg.Install.Manifest))
	}

	return errs
}
