// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all rolodex configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Display Display `yaml:"display"`
	Log     Log     `yaml:"log"`
}

// Storage selects where and how the address book is persisted.
type Storage struct {
	Backend string `yaml:"backend"` // "json" | "yaml" | "sqlite"
	Path    string `yaml:"path"`
}

// Display holds listing settings.
type Display struct {
	PageSize int  `yaml:"page_size"` // Records per page when listing
	Plain    bool `yaml:"plain"`     // Never start the terminal UI
}

// Log holds diagnostic logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Backend: "json",
			Path:    ".rolodex/book.json",
		},
		Display: Display{
			PageSize: 5,
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.Backend == "" {
		return errors.New("config: storage.backend cannot be empty")
	}
	if c.Storage.Path == "" {
		return errors.New("config: storage.path cannot be empty")
	}
	if c.Display.PageSize < 1 {
		return fmt.Errorf("config: display.page_size must be positive, got %d", c.Display.PageSize)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ROLODEX_BACKEND, ROLODEX_PATH, ROLODEX_PAGE_SIZE, ROLODEX_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ROLODEX_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("ROLODEX_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ROLODEX_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ROLODEX_PAGE_SIZE %q: %w", v, err)
		}
		c.Display.PageSize = n
	}
	if v := os.Getenv("ROLODEX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Display *rawDisplay `yaml:"display"`
	Log     *rawLog     `yaml:"log"`
}

type rawStorage struct {
	Backend *string `yaml:"backend"`
	Path    *string `yaml:"path"`
}

type rawDisplay struct {
	PageSize *int  `yaml:"page_size"`
	Plain    *bool `yaml:"plain"`
}

type rawLog struct {
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		if layer.Storage.Backend != nil {
			c.Storage.Backend = *layer.Storage.Backend
		}
		if layer.Storage.Path != nil {
			c.Storage.Path = *layer.Storage.Path
		}
	}
	if layer.Display != nil {
		if layer.Display.PageSize != nil {
			c.Display.PageSize = *layer.Display.PageSize
		}
		if layer.Display.Plain != nil {
			c.Display.Plain = *layer.Display.Plain
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
	}
}
