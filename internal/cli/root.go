package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nerrad567/dbee/internal/infrastructure/config"
	"github.com/nerrad567/dbee/internal/infrastructure/database"
	"github.com/nerrad567/dbee/internal/infrastructure/logging"
	"github.com/nerrad567/dbee/internal/store"
)

// App carries the per-invocation state shared by all subcommands:
// resolved configuration and the logger built from it.
type App struct {
	version    string
	configPath string
	debug      bool

	cfg *config.Config
	log *logging.Logger
}

// NewRootCmd builds the dbee command tree.
//
// Each subcommand declares its exact argument schema through cobra, so arity
// errors are caught before any handler runs. Errors are printed by main, not
// by cobra, to keep a single exit path.
//
// Parameters:
//   - version: Application version, shown by --version and logged
//
// Returns:
//   - *cobra.Command: Root command ready for ExecuteContext
func NewRootCmd(version string) *cobra.Command {
	app := &App{version: version}

	root := &cobra.Command{
		Use:   "dbee",
		Short: "Manage a single-table SQLite database file from the command line",
		Long: `dbee wraps an embedded SQLite engine behind small, single-shot
subcommands: create a database file, define its headers, add and search rows,
rename or drop headers, and lock the whole file with a password.

Each database holds one table, named "data". Search predicates use SQLite's
expression syntax, e.g.:

  dbee search people.db "Username = 'John Doe'"`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "",
		"path to an optional YAML config file (default $DBEE_CONFIG)")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")
	if err := root.PersistentFlags().MarkHidden("debug"); err != nil {
		panic(err)
	}

	root.AddCommand(
		app.newMakeDBCmd(),
		app.newInsertHeaderCmd(),
		app.newAddDataCmd(),
		app.newSearchCmd(),
		app.newModifyDataCmd(),
		app.newRemoveDataCmd(),
		app.newModifyHeaderCmd(),
		app.newRemoveHeaderCmd(),
		app.newLockCmd(),
		app.newUnlockCmd(),
	)

	return root
}

// setup loads configuration and initialises the logger before any handler.
func (a *App) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Logging.Level = "debug"
	}

	a.cfg = cfg
	a.log = logging.New(cfg.Logging, a.version)
	return nil
}

// withStore opens the database at path, runs fn against a Store, and closes
// the connection on every exit path. The handle never outlives the command.
func (a *App) withStore(ctx context.Context, path string, fn func(*store.Store) error) error {
	db, err := database.Open(ctx, database.Config{
		Path:        path,
		BusyTimeout: a.cfg.Database.BusyTimeout,
		ForeignKeys: a.cfg.Database.ForeignKeys,
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			a.log.Error("closing database", "error", closeErr)
		}
	}()

	return fn(store.New(db, a.log))
}
