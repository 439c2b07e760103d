package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults verifies the zero-configuration path.
func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.BusyTimeout != 5 {
		t.Errorf("Database.BusyTimeout = %v, want 5", cfg.Database.BusyTimeout)
	}
	if !cfg.Database.ForeignKeys {
		t.Error("Database.ForeignKeys = false, want true")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %v, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Logging.Output = %v, want stderr", cfg.Logging.Output)
	}
}

// TestLoadFile verifies YAML values override defaults.
func TestLoadFile(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
database:
  busy_timeout: 30
logging:
  level: debug
  format: json
  output: stdout
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Database.BusyTimeout != 30 {
			t.Errorf("Database.BusyTimeout = %v, want 30", cfg.Database.BusyTimeout)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %v, want debug", cfg.Logging.Level)
		}
		if cfg.Logging.Format != "json" {
			t.Errorf("Logging.Format = %v, want json", cfg.Logging.Format)
		}
	})

	t.Run("fails on unreadable file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("Load() with explicit missing path should fail")
		}
	})

	t.Run("fails on malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "logging: [not a mapping")
		if _, err := Load(path); err == nil {
			t.Error("Load() with malformed YAML should fail")
		}
	})

	t.Run("falls back to DBEE_CONFIG", func(t *testing.T) {
		path := writeConfig(t, "logging:\n  level: info\n")
		t.Setenv(EnvConfigPath, path)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("Logging.Level = %v, want info", cfg.Logging.Level)
		}
	})
}

// TestEnvOverrides verifies environment variables win over file values.
func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")

	t.Setenv("DBEE_LOGGING_LEVEL", "error")
	t.Setenv("DBEE_DATABASE_BUSY_TIMEOUT", "60")
	t.Setenv("DBEE_DATABASE_FOREIGN_KEYS", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %v, want error", cfg.Logging.Level)
	}
	if cfg.Database.BusyTimeout != 60 {
		t.Errorf("Database.BusyTimeout = %v, want 60", cfg.Database.BusyTimeout)
	}
	if cfg.Database.ForeignKeys {
		t.Error("Database.ForeignKeys = true, want false")
	}
}

// TestValidate verifies rejection of unusable values.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative busy timeout", func(c *Config) { c.Database.BusyTimeout = -1 }, true},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"unknown log output", func(c *Config) { c.Logging.Output = "syslog" }, true},
		{"warning alias accepted", func(c *Config) { c.Logging.Level = "warning" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}
