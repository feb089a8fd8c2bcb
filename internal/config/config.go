// Package config provides configuration management: JSON application
// settings and HCL carrier audit profiles.
package config

import (
	"encoding/json"
	"os"

	"freight-audit/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Batch contains batch execution settings
	Batch BatchConfig `json:"batch"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// BatchConfig contains batch execution settings
type BatchConfig struct {
	// Workers is the worker pool size
	Workers int `json:"workers"`

	// ShipmentTimeoutSeconds bounds a single shipment's computation
	ShipmentTimeoutSeconds int `json:"shipment_timeout_seconds"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (text, json)
	DefaultFormat string `json:"default_format"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Batch: BatchConfig{
			Workers:                4,
			ShipmentTimeoutSeconds: 10,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
