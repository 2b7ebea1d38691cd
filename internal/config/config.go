// Package config holds the configuration of the boil command.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/nickng/boil/report"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ProjectFile is the configuration file looked up in the working directory
// when no file is given.
const ProjectFile = ".boil.yaml"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration for boil.
type Config struct {
	// Format of the loop reports: text, json, yaml or msgpack.
	Format string `yaml:"format" env:"BOIL_FORMAT"`

	// Logging
	LogFile string `yaml:"log_file" env:"BOIL_LOG_FILE"`
	Debug   bool   `yaml:"debug" env:"BOIL_DEBUG"`
	Color   bool   `yaml:"color" env:"BOIL_COLOR"`

	// Analysis settings
	PruneUnreachable bool   `yaml:"prune_unreachable" env:"BOIL_PRUNE_UNREACHABLE"`
	CallGraph        string `yaml:"callgraph" env:"BOIL_CALLGRAPH"`
	Workers          int    `yaml:"workers" env:"BOIL_WORKERS"`

	// BadPackages maps packages not to build to the reason.
	BadPackages map[string]string `yaml:"bad_packages"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:           string(report.Text),
		LogFile:          "",
		Debug:            false,
		Color:            true,
		PruneUnreachable: false,
		CallGraph:        "", // All functions.
		Workers:          0,  // GOMAXPROCS.
		BadPackages:      map[string]string{},
	}
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Config file at path, or ./.boil.yaml if path is empty and it exists
// 3. Defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		if _, err := os.Stat(ProjectFile); err == nil {
			path = ProjectFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config to YAML")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BOIL_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("BOIL_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("BOIL_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("BOIL_COLOR"); v != "" {
		cfg.Color = parseBool(v)
	}
	if v := os.Getenv("BOIL_PRUNE_UNREACHABLE"); v != "" {
		cfg.PruneUnreachable = parseBool(v)
	}
	if v := os.Getenv("BOIL_CALLGRAPH"); v != "" {
		cfg.CallGraph = v
	}
	if v := os.Getenv("BOIL_WORKERS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.Workers = i
		}
	}
}

func parseBool(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if _, err := report.ParseFormat(c.Format); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	switch c.CallGraph {
	case "", "static", "cha", "rta":
	default:
		return errors.Wrapf(ErrInvalidConfig, "callgraph must be one of static, cha, rta (got %q)", c.CallGraph)
	}
	if c.Workers < 0 {
		return errors.Wrap(ErrInvalidConfig, "workers must be non-negative")
	}
	return nil
}
