// Package cli defines dbee's command tree.
//
// Each subcommand declares a typed schema: exact positional arity plus
// repeated column:value or column=value parameters, validated before any
// handler touches the database. Handlers translate arguments into store,
// database, or envelope calls and print their results; error reporting and
// exit codes belong to main.
package cli
