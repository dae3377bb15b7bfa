// Package config loads tool configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	errs "github.com/tidl-lang/tidl/core/errors"
	"github.com/tidl-lang/tidl/internal/logging"
)

// DefaultFileName is looked for in the working directory when no config
// file is given explicitly.
const DefaultFileName = ".tidl.yaml"

// Config holds tool-wide settings.
type Config struct {
	// SearchPaths are the include search directories, in order.
	SearchPaths []string `yaml:"search_paths" json:"search_paths"`

	// CacheSize is the maximum number of programs held in memory.
	// Zero means the built-in default.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// StorePath is the persistent program store location. Empty disables
	// the store.
	StorePath string `yaml:"store_path" json:"store_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format" json:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SearchPaths: []string{"."},
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads a configuration file. YAML is assumed unless the path ends in
// .json. Missing optional fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "read config %s", path)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errs.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is non-empty, otherwise tries the
// default file name and falls back to defaults when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultFileName); err != nil {
		return Default(), nil
	}
	return Load(DefaultFileName)
}

// Validate checks field values that have a closed set of choices.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return errs.Wrapf(errs.ErrInvalidInput, "unknown log format %q", c.LogFormat)
	}
	if c.CacheSize < 0 {
		return errs.Wrapf(errs.ErrInvalidInput, "cache size %d is negative", c.CacheSize)
	}
	return nil
}

// LoggingLevel returns the parsed log level.
func (c *Config) LoggingLevel() logging.Level {
	lvl, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.LevelInfo
	}
	return lvl
}

// LoggingFormat returns the parsed log format.
func (c *Config) LoggingFormat() logging.Format {
	if c.LogFormat == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}
