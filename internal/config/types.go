// Package config loads stencil's tool configuration and replacement files.
package config

import "runtime"

// Config is the tool configuration. It controls how external collaborators
// are invoked; it never changes which files are rewritten.
type Config struct {
	Git     GitConfig     `koanf:"git"`
	Install InstallConfig `koanf:"install"`
}

// GitConfig controls template acquisition by clone.
type GitConfig struct {
	Command string `koanf:"command"`
	Depth   int    `koanf:"depth"`
}

// InstallConfig controls the post-generation install step.
type InstallConfig struct {
	Command  string   `koanf:"command"`
	Args     []string `koanf:"args"`
	Manifest string   `koanf:"manifest"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Git: GitConfig{
			Command: "git",
			Depth:   1,
		},
		Install: InstallConfig{
			Command:  defaultPackageManager(),
			Args:     []string{"install"},
			Manifest: "package.json",
		},
	}
}

func defaultPackageManager() string {
	if runtime.GOOS == "windows" {
		return "npm.cmd"
	}
	return "npm"
}

func defaultsMap() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"git.command":      d.Git.Command,
		"git.depth":        d.Git.Depth,
		"install.command":  d.Install.Command,
		"install.args":     d.Install.Args,
		"install.manifest": d.Install.Manifest,
	}
}
