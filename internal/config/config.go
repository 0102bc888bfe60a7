// Package config provides unified configuration for the Tabula shell.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the interactive shell.
type Config struct {
	// Prompt is the interactive prompt string
	Prompt string `json:"prompt" yaml:"prompt"`

	// Viewer configuration
	Viewer ViewerConfig `json:"viewer" yaml:"viewer"`

	// Log configuration
	Log LogConfig `json:"log" yaml:"log"`
}

// ViewerConfig holds table viewer configuration.
type ViewerConfig struct {
	// MaxRows caps how many rows the list command renders (0 = all)
	MaxRows int `json:"max_rows" yaml:"max_rows"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error
	Level string `json:"level" yaml:"level"`

	// Format is the console log format: text, json
	Format string `json:"format" yaml:"format"`

	// SeqURL is the optional Seq ingestion endpoint; empty disables it
	SeqURL string `json:"seq_url" yaml:"seq_url"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Prompt: "tabula> ",
		Viewer: ViewerConfig{
			MaxRows: 50,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			SeqURL: "",
		},
	}
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv applies TABULA_* environment variables on top of cfg.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("TABULA_PROMPT"); v != "" {
		cfg.Prompt = v
	}
	if v := os.Getenv("TABULA_VIEWER_MAX_ROWS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Viewer.MaxRows = n
		}
	}
	if v := os.Getenv("TABULA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TABULA_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TABULA_SEQ_URL"); v != "" {
		cfg.Log.SeqURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	if c.Viewer.MaxRows < 0 {
		return fmt.Errorf("viewer.max_rows must not be negative, got %d", c.Viewer.MaxRows)
	}

	return nil
}
