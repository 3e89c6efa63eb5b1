// Package config loads engine-wide configuration: the root data
// directory, default table columns, and the auto-compaction threshold.
// Priority is environment variables (DUMBDB_*) over an optional YAML
// file over defaults, following mvp-joe-project-cortex's loader shape.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the engine's configuration surface. It does not replace
// the catalog's root-directory parameter, which callers still pass
// explicitly to engine.New; engine tests pass their settings to
// engine.New as options and build no Config.
type Config struct {
	RootDir              string   `mapstructure:"root_dir"`
	DefaultColumns       []string `mapstructure:"default_columns"`
	AutoCompactThreshold int      `mapstructure:"auto_compact_threshold"`
}

// Default returns the configuration used when no file or environment
// variable overrides a value.
func Default() *Config {
	return &Config{
		RootDir:              "./data",
		DefaultColumns:       []string{"id"},
		AutoCompactThreshold: 0, // 0 disables automatic compaction
	}
}

// Load reads configuration from <rootDir>/.dumbdb/config.yml (if
// present), applies DUMBDB_* environment overrides, and falls back to
// Default() for anything left unset.
func Load(rootDir string) (*Config, error) {
	v := viper.New()

	configDir := filepath.Join(rootDir, ".dumbdb")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("DUMBDB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("root_dir")
	v.BindEnv("default_columns")
	v.BindEnv("auto_compact_threshold")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", configDir, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("root_dir", defaults.RootDir)
	v.SetDefault("default_columns", defaults.DefaultColumns)
	v.SetDefault("auto_compact_threshold", defaults.AutoCompactThreshold)
}
