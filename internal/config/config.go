// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Request shape
	PostType string `json:"post_type,omitempty"` // Post type (event, offer, ...)
	CopyMode string `json:"copy_mode,omitempty"` // Copy mode (single, two-line, ultra)
	Platform string `json:"platform,omitempty"`  // Destination platform label
	Input    string `json:"input,omitempty"`     // Path to a JSON request file

	// Brand
	VenueID       string `json:"venue_id,omitempty"`       // Venue UUID (required for DB-based runs)
	BrandVoice    string `json:"brand_voice,omitempty"`    // Short voice description
	MicroIdentity string `json:"micro_identity,omitempty"` // Optional sign-off phrase

	// Limits
	MaxWords int `json:"max_words,omitempty"` // Word cap override

	// Behavior
	APIKey      string  `json:"api_key,omitempty"`      // Gemini API key
	Model       string  `json:"model,omitempty"`        // Model override
	Temperature float64 `json:"temperature,omitempty"`  // Sampling temperature (0.0-1.0)
	Verbose     bool    `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string  `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MaxWords < 0 {
		return fmt.Errorf("config error: 'max_words' must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("config error: 'temperature' must be between 0.0 and 1.0")
	}

	if c.Input != "" {
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", c.Input)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.PostType == "" {
		result.PostType = defaults.PostType
	}
	if result.CopyMode == "" {
		result.CopyMode = defaults.CopyMode
	}
	if result.Platform == "" {
		result.Platform = defaults.Platform
	}
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.VenueID == "" {
		result.VenueID = defaults.VenueID
	}
	if result.BrandVoice == "" {
		result.BrandVoice = defaults.BrandVoice
	}
	if result.MicroIdentity == "" {
		result.MicroIdentity = defaults.MicroIdentity
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.MaxWords == 0 {
		result.MaxWords = defaults.MaxWords
	}

	// Float fields
	if result.Temperature == 0 {
		if defaults.Temperature > 0 {
			result.Temperature = defaults.Temperature
		} else {
			result.Temperature = 0.4
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
