package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/tabconv/internal/logger"
)

// Config represents the tabconv configuration
type Config struct {
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file,omitempty"`
	StrictExit bool   `yaml:"strict_exit"`
	LegacyTSV  bool   `yaml:"legacy_tsv"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "warn",
		LogFile:    "", // stderr
		StrictExit: false,
		LegacyTSV:  false,
	}
}

// ConfigPath returns the path to the config file.
// Can be overridden for testing
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "tabconv", "config.yaml")
}

// Load reads configuration from the XDG config directory.
// A missing file yields the defaults; keys absent from the file keep their defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// ExpandPaths expands ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
