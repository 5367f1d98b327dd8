package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
	"github.com/mohammadpnp/graph-user-import/internal/bootstrap"
	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
	infrafile "github.com/mohammadpnp/graph-user-import/internal/infrastructure/file"
)

const defaultSourcePath = "users.json"

func newImportCommand(rt *runtime) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [FILE...]",
		Short: "Insert users from one or more export files, skipping ids that already exist",
		Long: `Reads {"value":[...]} export documents and inserts one users row per record id.
Rows that already exist are left untouched. Use "-" to read from standard input.
Without arguments ./users.json is imported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{defaultSourcePath}
			}

			source := infrafile.NewLocalSource(rt.cfg.Import.BaseDir)
			source.Stdin = cmd.InOrStdin()

			store := &lazyImportStore{open: func(ctx context.Context) (*bootstrap.Database, error) {
				return bootstrap.OpenDatabase(ctx, rt.cfg.Database, rt.logger)
			}}
			defer store.Close()

			var importStore domain.ImportStore = store
			if dryRun {
				importStore = nil
			}

			importer := app.NewImportUsersFromJSON(source, importStore, rt.logger)
			out, err := importer.Execute(cmd.Context(), app.ImportUsersFromJSONInput{
				SourcePaths: paths,
				SkipInvalid: rt.cfg.Import.SkipInvalid(),
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.DryRun {
				fmt.Fprintf(w, "dry run: %d record(s) read, %d valid, %d invalid, %d removed; nothing written\n",
					out.Processed, out.Processed-out.Invalid-out.Removed, out.Invalid, out.Removed)
				return nil
			}

			fmt.Fprintf(w, "imported %d user(s), skipped %d existing, %d invalid, %d removed (run %s)\n",
				out.Inserted, out.Skipped, out.Invalid, out.Removed, out.RunID)

			if store.db != nil {
				if total, err := store.db.QueryRepository().Count(cmd.Context()); err == nil {
					rt.logger.Infow("users table size", "run_id", out.RunID, "rows", total)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the input without connecting to the database")

	return cmd
}

// lazyImportStore connects on the first write, so input that fails validation
// never opens a database connection.
type lazyImportStore struct {
	open func(ctx context.Context) (*bootstrap.Database, error)
	db   *bootstrap.Database
}

func (s *lazyImportStore) InsertSkipExisting(ctx context.Context, rows []domain.Row) (domain.WriteResult, error) {
	if s.db == nil {
		db, err := s.open(ctx)
		if err != nil {
			return domain.WriteResult{}, err
		}
		s.db = db
	}
	return s.db.ImportStore().InsertSkipExisting(ctx, rows)
}

func (s *lazyImportStore) Close() {
	s.db.Close()
}
