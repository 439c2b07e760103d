// Package config handles the optional configuration of dbee.
//
// dbee works with zero configuration: the only state it persists is the
// database file itself. This package exists for the ambient knobs (log
// verbosity and SQLite pragmas), which can be set through a YAML file
// (via --config or $DBEE_CONFIG) or through DBEE_* environment variables.
//
// Precedence, lowest to highest: built-in defaults, YAML file, environment.
package config
