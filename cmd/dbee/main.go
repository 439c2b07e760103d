// dbee - a command-line companion for single-table SQLite database files.
//
// This is the main entry point. All command behaviour lives in internal/cli;
// main only wires signal handling and the process exit code.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/dbee/internal/cli"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) so a long-running
	// engine call can be abandoned cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the command tree, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation signals
//
// Returns:
//   - error: nil on success, or the failure to report
func run(ctx context.Context) error {
	return cli.NewRootCmd(version).ExecuteContext(ctx)
}
