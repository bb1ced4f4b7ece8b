// Package config provides configuration management for manscope.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/open-cli-collective/manscope/internal/logging"
	"github.com/open-cli-collective/manscope/internal/view"
	"github.com/open-cli-collective/manscope/pkg/man"
)

// Config holds the manscope configuration.
type Config struct {
	OutputFormat string `yaml:"output_format,omitempty" toml:"output_format,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	MinSeverity  string `yaml:"min_severity,omitempty" toml:"min_severity,omitempty"`
	Strict       bool   `yaml:"strict,omitempty" toml:"strict,omitempty"`
}

// Environment variables that override file values.
const (
	EnvOutput      = "MANSCOPE_OUTPUT"
	EnvLogLevel    = "MANSCOPE_LOG_LEVEL"
	EnvMinSeverity = "MANSCOPE_MIN_SEVERITY"
	EnvStrict      = "MANSCOPE_STRICT"
)

// EnvVars lists every environment variable LoadFromEnv reads.
var EnvVars = []string{EnvOutput, EnvLogLevel, EnvMinSeverity, EnvStrict}

// Validate checks that every set field holds a known value.
func (c *Config) Validate() error {
	if err := view.ValidateFormat(c.OutputFormat); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := man.ParseSeverity(c.MinSeverity); err != nil {
		return err
	}
	return nil
}

// Severity returns the parsed minimum severity, warning when unset or
// invalid.
func (c *Config) Severity() man.Severity {
	s, _ := man.ParseSeverity(c.MinSeverity)
	return s
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv(EnvOutput); v != "" {
		c.OutputFormat = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMinSeverity); v != "" {
		c.MinSeverity = v
	}
	if v := os.Getenv(EnvStrict); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Strict = b
		}
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "manscope", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".manscope", "config.yml")
	}

	return filepath.Join(home, ".config", "manscope", "config.yml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Save writes the configuration to path, as TOML when the file name ends
// in .toml and as YAML otherwise.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
// A missing file yields an empty configuration; a malformed one is an error.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
