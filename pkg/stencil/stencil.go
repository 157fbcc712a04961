// Package stencil provides the public Go library API for stencil.
//
// stencil prepares a new project from a template: it acquires the template
// (shallow clone or local copy) into a fresh destination, substitutes
// placeholder tokens in text files and optionally runs the install step.
//
// # Basic Usage
//
//	client, err := stencil.New(stencil.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Generate(ctx, stencil.GenerateOptions{
//	    Source:       "https://github.com/your-org/starter.git",
//	    Destination:  "./my-app",
//	    Replacements: stencil.Set{"APP_NAME": "My App"},
//	})
//
//	// Retrofit replacements onto an existing folder
//	applied, err := client.Apply(ctx, "./my-app", stencil.Set{"APP_NAME": "Renamed"})
package stencil

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/bianoble/stencil/internal/config"
	"github.com/bianoble/stencil/internal/engine"
	"github.com/bianoble/stencil/internal/install"
	"github.com/bianoble/stencil/internal/logging"
	"github.com/bianoble/stencil/internal/runner"
	"github.com/bianoble/stencil/internal/source"
)

// Generator prepares a new project from a template.
type Generator interface {
	Generate(ctx context.Context, opts GenerateOptions) (*Result, error)
}

// Applier rewrites an existing folder with a replacement set.
type Applier interface {
	Apply(ctx context.Context, folder string, set Set) (*ApplyResult, error)
}

// GenerateOptions configures a generation.
type GenerateOptions struct {
	Source      string
	Destination string
	// Replacements may be nil; the tree is still walked.
	Replacements Set
	SkipInstall  bool
	// Strategy is "auto" (default), "clone" or "copy".
	Strategy string
}

// Options configures a stencil client.
type Options struct {
	// ConfigPath is the project config file. Default: "stencil.yaml" in the
	// working directory. A missing file is not an error.
	ConfigPath string

	// NoInherit skips the user config layer.
	NoInherit bool

	// Config, when set, is used as-is and no config files are read.
	Config *Config

	// Runner overrides the process runner used for clone and install.
	Runner Runner

	// Stdout and Stderr receive child process output. Default: os streams.
	Stdout io.Writer
	Stderr io.Writer

	Logger *zerolog.Logger
}

// Client is the main entry point for the stencil library.
// It implements Generator and Applier.
type Client struct {
	cfg      *Config
	generate *engine.GenerateEngine
	apply    *engine.ApplyEngine
}

// New creates a stencil Client.
func New(opts Options) (*Client, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, _, err := config.Load(config.DiscoverOptions{
			ProjectPath: opts.ConfigPath,
			NoInherit:   opts.NoInherit,
		})
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, &config.ValidationError{Errors: errs}
	}

	logger := opts.Logger
	if logger == nil {
		l := logging.GetLogger("stencil")
		logger = &l
	}

	r := opts.Runner
	if r == nil {
		r = &runner.ExecRunner{
			Stdout: opts.Stdout,
			Stderr: opts.Stderr,
			Env:    []string{"GIT_TERMINAL_PROMPT=0"},
			Logger: logger,
		}
	}

	return &Client{
		cfg: cfg,
		generate: &engine.GenerateEngine{
			Clone: &source.GitAcquirer{
				Runner:  r,
				Command: cfg.Git.Command,
				Depth:   cfg.Git.Depth,
			},
			Copy: &source.LocalAcquirer{},
			Installer: &install.Installer{
				Runner:   r,
				Command:  cfg.Install.Command,
				Args:     cfg.Install.Args,
				Manifest: cfg.Install.Manifest,
			},
			Logger: logger,
		},
		apply: &engine.ApplyEngine{Logger: logger},
	}, nil
}

// Config returns the effective tool configuration.
func (c *Client) Config() Config {
	return *c.cfg
}

// Generate acquires the template, substitutes replacements and runs the
// install step unless disabled.
func (c *Client) Generate(ctx context.Context, opts GenerateOptions) (*Result, error) {
	strategy, err := source.ParseStrategy(opts.Strategy)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Err: err}
	}
	return c.generate.Generate(ctx, engine.Request{
		Source:       opts.Source,
		Destination:  opts.Destination,
		Replacements: opts.Replacements,
		SkipInstall:  opts.SkipInstall,
		Strategy:     strategy,
	})
}

// Apply rewrites eligible files under an existing folder.
func (c *Client) Apply(ctx context.Context, folder string, set Set) (*ApplyResult, error) {
	return c.apply.Apply(ctx, folder, set)
}

// LoadReplacements reads a replacement set from a JSON, YAML, TOML or
// dotenv file chosen by extension.
func LoadReplacements(path string) (Set, error) {
	return config.LoadReplacements(path)
}
