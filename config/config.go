package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alishankhan/cryptomator/internal/util"
	"gopkg.in/yaml.v3"
)

// Verbosity levels accepted on the command line and in config files.
// They map onto the internal log levels; higher is chattier.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultVerbose = InfoVerbose

	// DefaultPageSize is the number of directory entries fetched from the
	// backend per read while a child enumeration is consumed.
	DefaultPageSize = 64
)

// Config contains runtime configuration values shared by the backends and
// the command line tools.
type Config struct {
	LogLvl   util.LogLevel // Internal log level, derived from the file's verbosity (Default info)
	PageSize int           // Directory entries fetched per backend read during enumeration (Default 64)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero
// values when loading partial configuration. See [Config] for field
// descriptions.
type ConfigOverride struct {
	Verbose  *int `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	PageSize *int `yaml:"page_size,omitempty" json:"page_size,omitempty"`
}

// NewConfig creates a Config with default values and the override, if any,
// applied on top.
func NewConfig(override *ConfigOverride) *Config {
	cfg := &Config{
		LogLvl:   LogLevelFromVerbose(DefaultVerbose),
		PageSize: DefaultPageSize,
	}
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.Verbose != nil {
		c.LogLvl = LogLevelFromVerbose(*override.Verbose)
	}
	if override.PageSize != nil {
		c.PageSize = *override.PageSize
	}
}

// LogLevelFromVerbose converts a user-facing verbosity between 1 (error)
// and 5 (trace) to the internal log level, clamping out-of-range values.
func LogLevelFromVerbose(verbose int) util.LogLevel {
	if verbose < ErrorVerbose {
		verbose = ErrorVerbose
	}
	if verbose > TraceVerbose {
		verbose = TraceVerbose
	}
	levels := [5]util.LogLevel{
		util.ErrorLevel,
		util.WarnLevel,
		util.InfoLevel,
		util.DebugLevel,
		util.TraceLevel,
	}
	return levels[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
