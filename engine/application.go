package engine

import (
	"github.com/spaghettifunk/quatmesh/engine/config"
	"github.com/spaghettifunk/quatmesh/engine/core"
)

type ApplicationConfig struct {
	// The application name, logged when the engine boots.
	Name string
	// Path of the TOML configuration. Empty means built-in defaults.
	ConfigPath string
	// Preloaded configuration. Takes precedence over ConfigPath.
	Config *config.Config
	// Re-run the pipeline whenever ConfigPath changes on disk.
	Watch bool
	// Overrides log.level from the configuration when set.
	LogLevel *core.LogLevel
}
