// Package config loads airc's own tool configuration with Viper.
//
// This is configuration about the tool (default editors, concurrency,
// backup retention), not the project descriptor; descriptors live in
// the descriptor package. Values come from config.yaml under the XDG
// config directory, overridable through AIRC_-prefixed environment
// variables.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/airc-dev/airc/internal/errors"
	"github.com/airc-dev/airc/internal/paths"
)

// Config is airc's tool configuration.
type Config struct {
	// Version is the config format version.
	Version int `mapstructure:"version" yaml:"version"`

	// DefaultEditors are targeted when --editor is not given.
	// Empty means every registered editor.
	DefaultEditors []string `mapstructure:"default_editors" yaml:"default_editors"`

	// Concurrency bounds parallel reference resolution. Zero falls back
	// to the resolver's default.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`

	// Backup holds snapshot settings.
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`
}

// BackupConfig holds pre-overwrite snapshot settings.
type BackupConfig struct {
	// RetentionCount is how many snapshots to keep per project.
	RetentionCount int `mapstructure:"retention_count" yaml:"retention_count"`
}

// Defaults applied when no config file or environment override exists.
const (
	DefaultVersion        = 1
	DefaultConcurrency    = 5
	DefaultRetentionCount = 5
)

// Init installs Viper defaults, search paths, and the AIRC_ environment
// prefix. Call once at startup before Load.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ToolConfigDir())

	viper.SetEnvPrefix("AIRC")
	viper.AutomaticEnv()

	viper.SetDefault("version", DefaultVersion)
	viper.SetDefault("concurrency", DefaultConcurrency)
	viper.SetDefault("backup.retention_count", DefaultRetentionCount)
}

// Load reads the configuration. With a non-empty path the file must
// exist; with an empty path the default search locations are consulted
// and a missing file just yields the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// DefaultPath returns where Save writes when no explicit path is given.
func DefaultPath() string {
	return filepath.Join(paths.ToolConfigDir(), "config.yaml")
}
