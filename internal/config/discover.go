package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const configFileName = "config.yaml"
const configDirName = "stencil"

// ProjectConfigFile is the optional config file looked up in the working directory.
const ProjectConfigFile = "stencil.yaml"

// EnvPrefix prefixes environment overrides, e.g. STENCIL_GIT_COMMAND.
const EnvPrefix = "STENCIL_"

// ConfigLevel represents the precedence level of a configuration file.
type ConfigLevel string

const (
	LevelUser    ConfigLevel = "user"
	LevelProject ConfigLevel = "project"
)

// ConfigLayerInfo describes a discovered config file and its load status.
type ConfigLayerInfo struct {
	Err    error // non-nil if the file exists but failed to load
	Path   string
	Level  ConfigLevel
	Loaded bool
}

// DiscoverOptions controls how config paths are discovered.
type DiscoverOptions struct {
	// ProjectPath is the project-level config path. Empty means ProjectConfigFile.
	ProjectPath string

	// UserConfigPath overrides the default user config path.
	// Set to a nonexistent path to skip.
	UserConfigPath string

	// NoInherit skips the user layer.
	NoInherit bool
}

// DiscoverPaths returns config file candidates from lowest precedence (user)
// to highest (project), deduplicated by absolute path.
func DiscoverPaths(opts DiscoverOptions) []ConfigLayerInfo {
	var layers []ConfigLayerInfo
	seen := make(map[string]bool)

	addLayer := func(level ConfigLevel, path string) {
		if path == "" {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true
		layers = append(layers, ConfigLayerInfo{Path: path, Level: level})
	}

	if !opts.NoInherit {
		userPath := opts.UserConfigPath
		if userPath == "" {
			userPath = DefaultUserConfigPath()
		}
		addLayer(LevelUser, userPath)
	}

	projectPath := opts.ProjectPath
	if projectPath == "" {
		projectPath = ProjectConfigFile
	}
	addLayer(LevelProject, projectPath)

	return layers
}

// DefaultUserConfigPath returns $XDG_CONFIG_HOME/stencil/config.yaml.
func DefaultUserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, configDirName, configFileName)
}

// EnvNoInherit returns true if STENCIL_NO_INHERIT is set to "1" or "true".
func EnvNoInherit() bool {
	return envBoolTrue(EnvPrefix + "NO_INHERIT")
}

func envBoolTrue(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true"
}

// envKey maps STENCIL_INSTALL_COMMAND to install.command.
// Only the first underscore separates section from field.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}
