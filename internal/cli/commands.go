package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/dbee/internal/envelope"
	"github.com/nerrad567/dbee/internal/infrastructure/database"
	"github.com/nerrad567/dbee/internal/render"
	"github.com/nerrad567/dbee/internal/store"
)

// newMakeDBCmd creates a new, empty database file.
func (a *App) newMakeDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "makedb <file>",
		Short: "Create a new database file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := database.Create(cmd.Context(), path); err != nil {
				return err
			}
			a.log.Info("database created", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Database '%s' created successfully.\n", path)
			return nil
		},
	}
}

// newInsertHeaderCmd defines the data table with the given headers.
func (a *App) newInsertHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert_th <file> <header>...",
		Short: "Create the table with the given column headers",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, headers := args[0], args[1:]
			return a.withStore(cmd.Context(), path, func(s *store.Store) error {
				if err := s.CreateTable(cmd.Context(), headers); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Table header with columns %s created successfully.\n",
					strings.Join(headers, ", "))
				return nil
			})
		},
	}
}

// newAddDataCmd inserts one row from column:value pairs.
func (a *App) newAddDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add_td <file> <column:value>...",
		Short: "Add a row of data",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, rawPairs := args[0], args[1:]

			pairs := make([]store.Pair, 0, len(rawPairs))
			for _, raw := range rawPairs {
				pair, err := store.ParsePair(raw)
				if err != nil {
					return err
				}
				pairs = append(pairs, pair)
			}

			return a.withStore(cmd.Context(), path, func(s *store.Store) error {
				if err := s.Insert(cmd.Context(), pairs); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Row added successfully.")
				return nil
			})
		},
	}
}

// newSearchCmd prints rows matching an optional predicate.
func (a *App) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <file> [predicate]",
		Short: "Print rows matching a predicate, or all rows",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			predicate := ""
			if len(args) == 2 {
				predicate = args[1]
			}

			return a.withStore(cmd.Context(), path, func(s *store.Store) error {
				result, err := s.Search(cmd.Context(), predicate)
				if err != nil {
					return err
				}
				render.Table(cmd.OutOrStdout(), result.Columns, result.Rows)
				return nil
			})
		},
	}
}

// newModifyDataCmd updates rows matching a predicate.
func (a *App) newModifyDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modify_td <file> <predicate> <column=value>",
		Short: "Update rows matching a predicate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, predicate, assignment := args[0], args[1], args[2]

			column, value, err := store.ParseAssignment(assignment)
			if err != nil {
				return err
			}

			return a.withStore(cmd.Context(), path, func(s *store.Store) error {
				n, err := s.Update(cmd.Context(), predicate, column, value)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No rows matched.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) modified.\n", n)
				return nil
			})
		},
	}
}

// newRemoveDataCmd deletes rows matching a predicate.
func (a *App) newRemoveDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove_td <file> <predicate>",
		Short: "Delete rows matching a predicate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, predicate := args[0], args[1]

			return a.withStore(cmd.Context(), path, func(s *store.Store) error {
				n, err := s.Delete(cmd.Context(), predicate)
				if err != nil {
					return err
				}
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No rows matched.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) removed.\n", n)
				return nil
			})
		},
	}
}

// newModifyHeaderCmd renames a column.
func (a *App) newModifyHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modify_th <file> <old-header> <new-header>",
		Short: "Rename a column header",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, oldName, newName := args[0], args[1], args[2]

			return a.withStore(cmd.Context(), path, func(s *store.Store) error {
				if err := s.RenameColumn(cmd.Context(), oldName, newName); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Table header '%s' renamed to '%s' successfully.\n", oldName, newName)
				return nil
			})
		},
	}
}

// newRemoveHeaderCmd drops a column and its data.
func (a *App) newRemoveHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove_th <file> <header>",
		Short: "Drop a column header and its data",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name := args[0], args[1]

			return a.withStore(cmd.Context(), path, func(s *store.Store) error {
				if err := s.DropColumn(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Table header '%s' and its data removed successfully.\n", name)
				return nil
			})
		},
	}
}

// newLockCmd encrypts the database file in place.
func (a *App) newLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock_db <file> <password> <confirm-password>",
		Short: "Encrypt the database file with a password",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, password, confirm := args[0], args[1], args[2]
			if err := envelope.Seal(path, password, confirm); err != nil {
				return err
			}
			a.log.Info("database locked", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Database '%s' locked successfully.\n", path)
			return nil
		},
	}
}

// newUnlockCmd decrypts the database file in place.
func (a *App) newUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock_db <file> <password>",
		Short: "Decrypt a locked database file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, password := args[0], args[1]
			if err := envelope.Unseal(path, password); err != nil {
				return err
			}
			a.log.Info("database unlocked", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Database '%s' unlocked successfully.\n", path)
			return nil
		},
	}
}
