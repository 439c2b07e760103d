package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath is the environment variable consulted for a config file path
// when no --config flag is given.
const EnvConfigPath = "DBEE_CONFIG"

// Config is the root configuration structure for dbee.
//
// Configuration is entirely optional: the tool runs with built-in defaults
// when no file is present. A YAML file can adjust logging and engine pragmas,
// and environment variables override file values.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains SQLite engine settings applied per invocation.
type DatabaseConfig struct {
	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	// Prevents "database is locked" errors when another process holds the file.
	BusyTimeout int `yaml:"busy_timeout"`

	// ForeignKeys enables foreign key enforcement in the engine.
	ForeignKeys bool `yaml:"foreign_keys"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load resolves the effective configuration.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values, if a file is found (override defaults)
//  3. Environment variables (override file values)
//
// The file is looked up at path, then at $DBEE_CONFIG. A missing file is not
// an error, since dbee keeps no mandatory persisted configuration, but a file
// that exists and fails to parse is.
//
// Environment variables follow the pattern: DBEE_SECTION_KEY
// For example: DBEE_LOGGING_LEVEL, DBEE_DATABASE_BUSY_TIMEOUT
//
// Parameters:
//   - path: Explicit config file path ("" to rely on the environment)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If an existing file cannot be read or parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults for one-shot CLI use.
//
// Logs go to stderr in text format at warn level so command output on stdout
// stays machine-readable.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			BusyTimeout: 5,
			ForeignKeys: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides replaces config values with environment variables where set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DBEE_DATABASE_BUSY_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.BusyTimeout = n
		}
	}
	if v := os.Getenv("DBEE_DATABASE_FOREIGN_KEYS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.ForeignKeys = b
		}
	}
	if v := os.Getenv("DBEE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DBEE_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DBEE_LOGGING_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
}

// Validate checks that configuration values are usable.
//
// Returns:
//   - error: Describing the first invalid value found, nil if all valid
func (c *Config) Validate() error {
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must be >= 0, got %d", c.Database.BusyTimeout)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "stderr":
	default:
		return fmt.Errorf("logging.output must be stdout or stderr, got %q", c.Logging.Output)
	}

	return nil
}
