// Package config provides unified configuration loading for epochtree.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EpochtreeConfig contains all epochtree configuration settings.
type EpochtreeConfig struct {
	// Store contains settings for the trace backing store.
	Store StoreConfig `json:"store" yaml:"store"`

	// Export contains settings for matrix export.
	Export ExportConfig `json:"export" yaml:"export"`

	// Import contains settings for archive loading.
	Import ImportConfig `json:"import" yaml:"import"`

	// Logging contains settings for operational and fetch logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// StoreConfig configures where lazily-loaded traces are fetched from.
type StoreConfig struct {
	// Path is the SQLite database file holding out-of-line trace data.
	// Empty selects an in-memory store, which resolves no locators.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ExportConfig configures Arrow matrix export.
type ExportConfig struct {
	// Dir is the directory matrix files are written into.
	Dir string `json:"dir" yaml:"dir"`
}

// ImportConfig configures archive loading behavior.
type ImportConfig struct {
	// StrictWarnings treats load warnings as fatal instead of reporting
	// them and continuing.
	StrictWarnings bool `json:"strict_warnings" yaml:"strict_warnings"`
}

// LoggingConfig configures epochtree's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables fetch logging to .epochtree/fetches.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns an EpochtreeConfig with sensible defaults.
func Default() *EpochtreeConfig {
	return &EpochtreeConfig{
		Store: StoreConfig{
			Path: "",
		},
		Export: ExportConfig{
			Dir: "exports",
		},
		Import: ImportConfig{
			StrictWarnings: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.epochtree/config.yaml -> environment variables
func Load() (*EpochtreeConfig, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".epochtree", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*EpochtreeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *EpochtreeConfig) Validate() error {
	if c.Export.Dir == "" {
		return fmt.Errorf("export dir must not be empty")
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *EpochtreeConfig) {
	if v := os.Getenv("EPOCHTREE_STORE_PATH"); v != "" {
		config.Store.Path = v
	}

	if v := os.Getenv("EPOCHTREE_EXPORT_DIR"); v != "" {
		config.Export.Dir = v
	}

	if v := os.Getenv("EPOCHTREE_STRICT_WARNINGS"); v != "" {
		config.Import.StrictWarnings = v == "true" || v == "1"
	}

	if v := os.Getenv("EPOCHTREE_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
