package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestRun_Help verifies the command tree executes without arguments.
func TestRun_Help(t *testing.T) {
	restore := setArgs(t, "dbee", "--help")
	defer restore()

	if err := run(context.Background()); err != nil {
		t.Errorf("run() with --help error = %v", err)
	}
}

// TestRun_UnknownCommand verifies unknown subcommands are rejected.
func TestRun_UnknownCommand(t *testing.T) {
	restore := setArgs(t, "dbee", "frobnicate")
	defer restore()

	if err := run(context.Background()); err == nil {
		t.Error("run() with unknown subcommand should fail")
	}
}

// TestRun_InvalidConfig verifies run fails with an unreadable config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("DBEE_CONFIG", "/nonexistent/path/config.yaml")

	restore := setArgs(t, "dbee", "makedb", filepath.Join(t.TempDir(), "test.db"))
	defer restore()

	if err := run(context.Background()); err == nil {
		t.Error("run() should fail when the configured file cannot be read")
	}
}

// TestRun_MakeDB verifies a full command round trip through main's entry point.
func TestRun_MakeDB(t *testing.T) {
	t.Setenv("DBEE_CONFIG", "")

	dbPath := filepath.Join(t.TempDir(), "test.db")
	restore := setArgs(t, "dbee", "makedb", dbPath)
	defer restore()

	if err := run(context.Background()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file was not created: %v", err)
	}
}

// setArgs swaps os.Args for the duration of a test.
func setArgs(t *testing.T, args ...string) func() {
	t.Helper()

	original := os.Args
	os.Args = args
	return func() { os.Args = original }
}
