// Package config handles polyreorder configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/polyreorder/internal/logger"
)

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Reorder ReorderConfig `yaml:"reorder"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ReorderConfig holds reorder defaults.
type ReorderConfig struct {
	// InPlace rebuilds the source mesh instead of creating a new one.
	InPlace bool `yaml:"in_place"`
	// MatchTolerance is the distance under which points match; 0 means exact.
	MatchTolerance float64 `yaml:"match_tolerance"`
	// DefaultFormat is the extension given to outputs that have none.
	DefaultFormat string `yaml:"default_format"`
}

// writableFormats lists the mesh formats an output may use.
var writableFormats = []string{"obj", "gltf", "glb", "yaml", "yml"}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Reorder: ReorderConfig{
			InPlace:        false,
			MatchTolerance: 0,
			DefaultFormat:  "yaml",
		},
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error
	if !logger.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if c.Reorder.MatchTolerance < 0 {
		errs = append(errs, fmt.Errorf("reorder.match_tolerance: must not be negative, got %g", c.Reorder.MatchTolerance))
	}
	if !slices.Contains(writableFormats, c.Reorder.DefaultFormat) {
		errs = append(errs, fmt.Errorf("reorder.default_format: %q is not one of %v", c.Reorder.DefaultFormat, writableFormats))
	}
	return errors.Join(errs...)
}

// LoggerOptions converts the logging settings into logger options.
// Console output is left for the caller to choose.
func (c *Config) LoggerOptions() logger.Options {
	opts := logger.Options{Level: c.Logging.Level}
	if c.Logging.LogFile != "" {
		opts.File = logger.FileConfig{
			Path:       c.Logging.LogFile,
			MaxSizeMB:  c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
			MaxAgeDays: c.Logging.MaxAgeDays,
			Compress:   c.Logging.Compress,
		}
	}
	return opts
}
