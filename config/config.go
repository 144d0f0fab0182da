package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/dbtools/engine"
	"github.com/nerrad567/dbtools/logging"
)

// Config is the root configuration for a dbtools host.
type Config struct {
	// Engine configures the database connection pool.
	Engine engine.Config `yaml:"engine"`

	// Logging configures structured log output.
	Logging logging.Config `yaml:"logging"`
}

// Load reads configuration from a YAML file.
//
// It applies the following precedence (lowest to highest):
//  1. Built-in defaults
//  2. Values from the YAML file
//  3. Environment variable overrides (DBTOOLS_*)
//
// The merged configuration is validated before being returned.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Validated configuration
//   - error: If reading, parsing or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// The engine DSN has no default; it must come from the file or environment.
func defaultConfig() *Config {
	return &Config{
		Engine: engine.Config{
			Driver: "sqlite3",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables follow the pattern: DBTOOLS_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Engine - the DSN carries credentials, so the environment is the
	// recommended way to supply it
	if v := os.Getenv("DBTOOLS_ENGINE_DRIVER"); v != "" {
		cfg.Engine.Driver = v
	}
	if v := os.Getenv("DBTOOLS_ENGINE_DSN"); v != "" {
		cfg.Engine.DSN = v
	}

	// Logging
	if v := os.Getenv("DBTOOLS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DBTOOLS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
