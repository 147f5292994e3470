// Package config provides YAML-based configuration loading for the editor.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appDir     = "pcb-editor"
	configFile = "config.yaml"

	defaultUndoLimit     = 100
	defaultClipboardKeep = 20
	defaultLogLevel      = "info"
)

// Config is the editor configuration, loaded from config.yaml.
type Config struct {
	UndoLimit       int             `yaml:"undo_limit"`
	DefaultNetClass string          `yaml:"default_net_class"`
	Clipboard       ClipboardConfig `yaml:"clipboard"`
	Log             LogConfig       `yaml:"log"`
}

// ClipboardConfig controls the clipboard store.
type ClipboardConfig struct {
	Dir  string `yaml:"dir"`
	Keep int    `yaml:"keep"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns ~/.config/pcb-editor/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	return filepath.Join(userDir(), configFile)
}

func userDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir)
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.UndoLimit == 0 {
		c.UndoLimit = defaultUndoLimit
	}
	if c.DefaultNetClass == "" {
		c.DefaultNetClass = "default"
	}
	if c.Clipboard.Dir == "" {
		c.Clipboard.Dir = filepath.Join(userDir(), "clipboard")
	}
	if c.Clipboard.Keep == 0 {
		c.Clipboard.Keep = defaultClipboardKeep
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// validate checks that all values are in range.
func (c *Config) validate() error {
	var errs []string
	if c.UndoLimit < 1 {
		errs = append(errs, "undo_limit must be positive")
	}
	if strings.TrimSpace(c.DefaultNetClass) == "" {
		errs = append(errs, "default_net_class must not be blank")
	}
	if c.Clipboard.Keep < 1 {
		errs = append(errs, "clipboard.keep must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
