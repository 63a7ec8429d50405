// Package config loads bulkreaderctl's YAML/env configuration, in the
// teacher's viper style: a config file plus environment overrides,
// bound to a small typed struct instead of scattering viper.Get calls
// across cmd/.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the settings bulkreaderctl needs to stand up a demo
// DataLayer and drive a plan/fetch against it.
type Config struct {
	DataDir          string `mapstructure:"data_dir"`
	Partitions       int    `mapstructure:"partitions"`
	ConsistencyLevel string `mapstructure:"consistency_level"`
	DataCenter       string `mapstructure:"datacenter"`
	Format           string `mapstructure:"format"`
	MaxConcurrency   int    `mapstructure:"max_concurrency"`
}

// Defaults returns the configuration bulkreaderctl falls back to when
// no config file or flag overrides any given field.
func Defaults() Config {
	return Config{
		DataDir:          "./bulkreader-data",
		Partitions:       4,
		ConsistencyLevel: "LOCAL_QUORUM",
		Format:           "text",
		MaxConcurrency:   8,
	}
}

// Load reads cfgFile (if non-empty) or $HOME/.bulkreaderctl/config.yaml
// (if present), applies the BULKREADER_* environment prefix, and
// layers both over Defaults(). A missing config file is not an error:
// it is optional.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	cfg := Defaults()
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("partitions", cfg.Partitions)
	v.SetDefault("consistency_level", cfg.ConsistencyLevel)
	v.SetDefault("format", cfg.Format)
	v.SetDefault("max_concurrency", cfg.MaxConcurrency)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".bulkreaderctl"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	v.SetEnvPrefix("BULKREADER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
