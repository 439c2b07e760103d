// Package store builds SQL statements for dbee's fixed "data" table and
// delegates their execution to the embedded SQLite engine.
//
// The store guards against structurally malformed input (empty header
// lists, duplicate columns, broken column:value pairs) before any statement
// reaches the engine. Predicate strings are the documented exception: they
// are passed to SQLite's expression evaluator untouched, so their syntax and
// semantics are exactly the engine's.
package store
