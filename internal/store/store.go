package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/dbee/internal/infrastructure/database"
	"github.com/nerrad567/dbee/internal/infrastructure/logging"
)

// tableName is the single relation every dbee database contains.
// The CLI surface depends on this name being fixed.
const tableName = "data"

// Sentinel errors for structurally invalid input and schema mismatches.
var (
	ErrNoHeaders           = errors.New("store: at least one header is required")
	ErrEmptyHeader         = errors.New("store: header names must not be empty")
	ErrDuplicateHeader     = errors.New("store: duplicate header name")
	ErrNoPairs             = errors.New("store: at least one column:value pair is required")
	ErrMalformedPair       = errors.New("store: data must be given as column:value")
	ErrMalformedAssignment = errors.New("store: assignment must be given as column=value")
	ErrEmptyPredicate      = errors.New("store: predicate must not be empty")
	ErrColumnNotFound      = errors.New("store: column does not exist")
	ErrColumnExists        = errors.New("store: column already exists")
	ErrTableNotFound       = errors.New(`store: table "data" does not exist; run insert_th first`)
)

// Pair is one column:value binding for a row insert.
type Pair struct {
	Column string
	Value  string
}

// Result holds the outcome of a search: ordered column names and rows of
// textual values. NULL values render as empty strings.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Store translates dbee operations into SQL statements against the fixed
// "data" table and delegates execution to the embedded engine.
//
// Identifiers are always double-quoted with embedded quotes escaped, and row
// values always travel as bound parameters. The one deliberate pass-through
// is the user-supplied predicate string, which is handed to SQLite's
// expression evaluator verbatim.
type Store struct {
	db  *database.DB
	log *logging.Logger
}

// New creates a Store over an open database connection.
func New(db *database.DB, log *logging.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With("component", "store"),
	}
}

// CreateTable defines the "data" table with the given ordered headers.
//
// Headers are typeless: SQLite stores whatever value is inserted. Creating is
// idempotent when the table already exists.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - headers: Ordered column names, at least one
//
// Returns:
//   - error: ErrNoHeaders, ErrEmptyHeader, ErrDuplicateHeader, or an engine error
func (s *Store) CreateTable(ctx context.Context, headers []string) error {
	if len(headers) == 0 {
		return ErrNoHeaders
	}
	if err := checkDistinct(headers); err != nil {
		return err
	}

	quoted := make([]string, len(headers))
	for i, h := range headers {
		quoted[i] = quoteIdent(h)
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(tableName), strings.Join(quoted, ", "))
	s.log.Debug("creating table", "statement", stmt)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return err
	}
	return nil
}

// Insert adds one row built from ordered column:value pairs.
//
// Every referenced column must already exist; the check runs against the
// engine's table metadata before the insert so the error names the column
// instead of surfacing a raw engine message.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - pairs: Column:value bindings, at least one
//
// Returns:
//   - error: ErrNoPairs, ErrDuplicateHeader, ErrTableNotFound,
//     ErrColumnNotFound, or an engine error
func (s *Store) Insert(ctx context.Context, pairs []Pair) error {
	if len(pairs) == 0 {
		return ErrNoPairs
	}

	names := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p.Column
	}
	if err := checkDistinct(names); err != nil {
		return err
	}

	existing, err := s.Columns(ctx)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if !containsFold(existing, p.Column) {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, p.Column)
		}
	}

	quoted := make([]string, len(pairs))
	placeholders := make([]string, len(pairs))
	args := make([]interface{}, len(pairs))
	for i, p := range pairs {
		quoted[i] = quoteIdent(p.Column)
		placeholders[i] = "?"
		args[i] = p.Value
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	s.log.Debug("inserting row", "statement", stmt)

	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return err
	}
	return nil
}

// Search returns rows matching the predicate, or every row when the
// predicate is empty. Column order follows the table definition.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - predicate: Engine filter expression, "" for all rows
//
// Returns:
//   - *Result: Ordered columns and matching rows
//   - error: ErrTableNotFound or an engine error (e.g. malformed predicate)
func (s *Store) Search(ctx context.Context, predicate string) (*Result, error) {
	if _, err := s.Columns(ctx); err != nil {
		return nil, err
	}

	stmt := "SELECT * FROM " + quoteIdent(tableName)
	if strings.TrimSpace(predicate) != "" {
		stmt += " WHERE " + predicate
	}
	s.log.Debug("searching rows", "statement", stmt)

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("store: searching rows: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("store: reading result columns: %w", err)
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scanArgs := make([]interface{}, len(cols))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("store: scanning row: %w", err)
		}

		row := make([]string, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating rows: %w", err)
	}

	return result, nil
}

// Update sets column = value on every row matching the predicate.
//
// Zero matching rows is a valid outcome, reported through the returned count
// rather than an error.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - predicate: Engine filter expression selecting rows to update
//   - column: Column to assign
//   - value: New value, bound as a parameter
//
// Returns:
//   - int64: Number of rows updated (0 is non-fatal)
//   - error: ErrEmptyPredicate, ErrTableNotFound, ErrColumnNotFound, or an
//     engine error
func (s *Store) Update(ctx context.Context, predicate, column, value string) (int64, error) {
	if strings.TrimSpace(predicate) == "" {
		return 0, ErrEmptyPredicate
	}
	if err := s.requireColumn(ctx, column); err != nil {
		return 0, err
	}

	stmt := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s",
		quoteIdent(tableName), quoteIdent(column), predicate)
	s.log.Debug("updating rows", "statement", stmt)

	res, err := s.db.ExecContext(ctx, stmt, value)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}

// Delete removes every row matching the predicate.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - predicate: Engine filter expression selecting rows to delete
//
// Returns:
//   - int64: Number of rows deleted (0 is non-fatal)
//   - error: ErrEmptyPredicate, ErrTableNotFound, or an engine error
func (s *Store) Delete(ctx context.Context, predicate string) (int64, error) {
	if strings.TrimSpace(predicate) == "" {
		return 0, ErrEmptyPredicate
	}
	if _, err := s.Columns(ctx); err != nil {
		return 0, err
	}

	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdent(tableName), predicate)
	s.log.Debug("deleting rows", "statement", stmt)

	res, err := s.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return rowsAffected(res)
}

// RenameColumn renames a header, preserving its data.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - oldName: Existing column name
//   - newName: Replacement name; must not collide with another column
//
// Returns:
//   - error: ErrTableNotFound, ErrColumnNotFound, ErrColumnExists,
//     ErrEmptyHeader, or an engine error
func (s *Store) RenameColumn(ctx context.Context, oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrEmptyHeader
	}
	if err := s.requireColumn(ctx, oldName); err != nil {
		return err
	}
	existing, err := s.Columns(ctx)
	if err != nil {
		return err
	}
	if containsFold(existing, newName) {
		return fmt.Errorf("%w: %q", ErrColumnExists, newName)
	}

	stmt := fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
		quoteIdent(tableName), quoteIdent(oldName), quoteIdent(newName))
	s.log.Debug("renaming column", "statement", stmt)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return err
	}
	return nil
}

// DropColumn removes a header and all its data.
//
// Re-creating a dropped column later yields a fresh, empty column; the engine
// discards the old data with the column.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - name: Column to drop
//
// Returns:
//   - error: ErrTableNotFound, ErrColumnNotFound, or an engine error (the
//     engine refuses to drop the last remaining column)
func (s *Store) DropColumn(ctx context.Context, name string) error {
	if err := s.requireColumn(ctx, name); err != nil {
		return err
	}

	stmt := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
		quoteIdent(tableName), quoteIdent(name))
	s.log.Debug("dropping column", "statement", stmt)

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return err
	}
	return nil
}

// Columns returns the table's headers in definition order.
//
// Returns:
//   - []string: Ordered column names
//   - error: ErrTableNotFound if the "data" table has not been created
func (s *Store) Columns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM pragma_table_info(?) ORDER BY cid", tableName)
	if err != nil {
		return nil, fmt.Errorf("store: reading table metadata: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("store: scanning table metadata: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterating table metadata: %w", err)
	}

	if len(cols) == 0 {
		return nil, ErrTableNotFound
	}
	return cols, nil
}

// requireColumn fails with ErrColumnNotFound unless the column exists.
func (s *Store) requireColumn(ctx context.Context, name string) error {
	existing, err := s.Columns(ctx)
	if err != nil {
		return err
	}
	if !containsFold(existing, name) {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return nil
}

// ParsePair splits a "column:value" argument on its first colon.
//
// The value may contain further colons; only the column name may not be
// empty. Values are allowed to be empty strings.
func ParsePair(arg string) (Pair, error) {
	column, value, ok := strings.Cut(arg, ":")
	if !ok || strings.TrimSpace(column) == "" {
		return Pair{}, fmt.Errorf("%w: %q", ErrMalformedPair, arg)
	}
	return Pair{Column: strings.TrimSpace(column), Value: value}, nil
}

// ParseAssignment splits a "column=value" argument on its first equals sign.
func ParseAssignment(arg string) (column, value string, err error) {
	column, value, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(column) == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedAssignment, arg)
	}
	return strings.TrimSpace(column), value, nil
}

// quoteIdent wraps an identifier in double quotes, escaping embedded quotes.
// SQLite treats "" inside a quoted identifier as a literal quote character.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// checkDistinct rejects empty and duplicate names. SQLite identifiers are
// case-insensitive, so the comparison folds case.
func checkDistinct(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return ErrEmptyHeader
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateHeader, n)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// containsFold reports whether names contains target, ignoring case.
func containsFold(names []string, target string) bool {
	for _, n := range names {
		if strings.EqualFold(n, target) {
			return true
		}
	}
	return false
}

// rowsAffected unwraps sql.Result with consistent error context.
func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: reading rows affected: %w", err)
	}
	return n, nil
}
