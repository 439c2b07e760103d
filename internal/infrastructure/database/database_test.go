package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nerrad567/dbee/internal/envelope"
)

// TestCreate verifies new database file creation.
func TestCreate(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		if err := Create(context.Background(), dbPath); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		info, err := os.Stat(dbPath)
		if err != nil {
			t.Fatalf("database file was not created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("file permissions = %04o, want 0600", perm)
		}
	})

	t.Run("fails if file exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		if err := os.WriteFile(dbPath, []byte("existing"), 0600); err != nil {
			t.Fatalf("writing fixture: %v", err)
		}

		err := Create(context.Background(), dbPath)
		if !errors.Is(err, ErrFileExists) {
			t.Errorf("Create() error = %v, want ErrFileExists", err)
		}

		// Existing content must be untouched
		data, err := os.ReadFile(dbPath)
		if err != nil {
			t.Fatalf("reading file: %v", err)
		}
		if string(data) != "existing" {
			t.Error("existing file content was modified")
		}
	})

	t.Run("created file opens as a database", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "test.db")

		if err := Create(context.Background(), dbPath); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		db, err := Open(context.Background(), Config{Path: dbPath, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() after Create() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup
	})
}

// TestOpen verifies database connection establishment.
func TestOpen(t *testing.T) {
	t.Run("fails if file does not exist", func(t *testing.T) {
		tmpDir := t.TempDir()
		dbPath := filepath.Join(tmpDir, "missing.db")

		_, err := Open(context.Background(), Config{Path: dbPath, BusyTimeout: 5})
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Open() error = %v, want ErrFileNotFound", err)
		}
	})

	t.Run("fails if file is sealed", func(t *testing.T) {
		db := createTestDB(t)

		if err := envelope.Seal(db, "hunter2", "hunter2"); err != nil {
			t.Fatalf("sealing fixture: %v", err)
		}

		_, err := Open(context.Background(), Config{Path: db, BusyTimeout: 5})
		if !errors.Is(err, ErrFileSealed) {
			t.Errorf("Open() error = %v, want ErrFileSealed", err)
		}
	})

	t.Run("returns path", func(t *testing.T) {
		dbPath := createTestDB(t)

		db, err := Open(context.Background(), Config{Path: dbPath, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck // Test cleanup

		if db.Path() != dbPath {
			t.Errorf("Path() = %v, want %v", db.Path(), dbPath)
		}
	})
}

// TestClose verifies graceful shutdown.
func TestClose(t *testing.T) {
	dbPath := createTestDB(t)

	db, err := Open(context.Background(), Config{Path: dbPath, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// Second close should not error (nil check)
	db.DB = nil
	if err := db.Close(); err != nil {
		t.Errorf("Close() on nil DB error = %v", err)
	}
}

// TestExecContext verifies statement execution.
func TestExecContext(t *testing.T) {
	dbPath := createTestDB(t)

	db, err := Open(context.Background(), Config{Path: dbPath, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	_, err = db.ExecContext(ctx, `CREATE TABLE "data" ("name")`)
	if err != nil {
		t.Fatalf("ExecContext() CREATE error = %v", err)
	}

	result, err := db.ExecContext(ctx, `INSERT INTO "data" ("name") VALUES (?)`, "test")
	if err != nil {
		t.Fatalf("ExecContext() INSERT error = %v", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		t.Fatalf("RowsAffected() error = %v", err)
	}
	if n != 1 {
		t.Errorf("RowsAffected() = %v, want 1", n)
	}
}

// createTestDB creates a temporary database file for testing.
func createTestDB(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	if err := Create(context.Background(), dbPath); err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	return dbPath
}
