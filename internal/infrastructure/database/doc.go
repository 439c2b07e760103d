// Package database provides SQLite connectivity for dbee.
//
// This package manages:
//   - Creation of new database files (refusing to clobber existing ones)
//   - Per-invocation connection lifecycle: open, one operation, close
//   - Busy timeout and foreign key pragmas from configuration
//   - Detection of files sealed by lock_db before the engine touches them
//
// Security Considerations:
//   - All statements built on top of this package use parameterised values;
//     the single deliberate exception is the user-supplied predicate string,
//     which is documented at the store layer
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Unlike a long-running service there is no pooling to tune: dbee performs
// one operation per process, so the wrapper pins a single connection and
// relies on SQLite's own file locking for cross-process coordination.
package database
