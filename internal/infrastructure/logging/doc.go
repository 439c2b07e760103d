// Package logging provides structured logging for dbee.
//
// It wraps log/slog with the conventions used across the codebase: a
// service/version pair on every record, level filtering from config, and a
// stderr default so stdout carries only command output.
package logging
