package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/nerrad567/dbee/internal/envelope"
)

// Database configuration constants.
const (
	// filePermissions is the permission mode for the database file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds for the busy_timeout pragma.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second
)

// Sentinel errors for file-level failure modes.
var (
	ErrFileExists   = errors.New("database: file already exists")
	ErrFileNotFound = errors.New("database: file does not exist")
	ErrFileSealed   = errors.New("database: file is locked; run unlock_db first")
)

// DB wraps a sql.DB connection scoped to a single dbee invocation.
//
// The connection is opened at the start of a command, used for exactly one
// operation, and closed before the process exits. No handle outlives the
// invocation.
type DB struct {
	*sql.DB
	path string
}

// Config contains database configuration options.
// These map to the database section of the optional config file.
type Config struct {
	// Path is the filesystem path to the SQLite database file.
	// The file must already exist; use Create for new databases.
	Path string

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int

	// ForeignKeys enables foreign key enforcement.
	ForeignKeys bool
}

// Create makes a new, empty SQLite database file at path.
//
// It fails if anything already exists at path: re-running makedb must never
// truncate a database the user already has.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - path: Destination for the new database file
//
// Returns:
//   - error: ErrFileExists, or an engine/filesystem error; nil on success
func Create(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("database: checking path: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return fmt.Errorf("database: opening database: %w", err)
	}
	defer sqlDB.Close() //nolint:errcheck // Best effort cleanup

	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	// Ping materialises the file on disk; forcing the schema version write
	// below gives it a valid SQLite header as well.
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: initialising database: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, "PRAGMA user_version = 0"); err != nil {
		return fmt.Errorf("database: initialising database: %w", err)
	}

	if err := os.Chmod(path, filePermissions); err != nil {
		return fmt.Errorf("database: setting file permissions: %w", err)
	}

	return nil
}

// Open connects to an existing database file with the specified configuration.
//
// It performs the following setup:
//  1. Verifies the file exists (SQLite would otherwise silently create it)
//  2. Refuses files sealed by lock_db, with a hint to unlock first
//  3. Configures busy timeout and foreign key pragmas
//  4. Verifies the connection with a ping
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database wrapper
//   - error: ErrFileNotFound, ErrFileSealed, or a connection error
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, cfg.Path)
		}
		return nil, fmt.Errorf("database: checking path: %w", err)
	}

	sealed, err := envelope.IsSealed(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("database: probing file: %w", err)
	}
	if sealed {
		return nil, fmt.Errorf("%w: %s", ErrFileSealed, cfg.Path)
	}

	// Build connection string with pragmas
	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)
	if cfg.ForeignKeys {
		connStr += "&_foreign_keys=on"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("database: opening database: %w", err)
	}

	// One command per invocation; one connection is all we need.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	db := &DB{
		DB:   sqlDB,
		path: cfg.Path,
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("database: verifying database connection: %w", err)
	}

	return db, nil
}

// Close closes the database connection gracefully.
// Safe to call on an already-closed or zero-value wrapper.
//
// Returns:
//   - error: If closing fails
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("database: closing database: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// ExecContext executes a statement that doesn't return rows (INSERT, UPDATE,
// DELETE, DDL). This is a convenience wrapper with consistent error handling.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - query: SQL with ? placeholders
//   - args: Arguments for placeholders
//
// Returns:
//   - sql.Result: Contains LastInsertId and RowsAffected
//   - error: If execution fails
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := db.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("database: executing statement: %w", err)
	}
	return result, nil
}
