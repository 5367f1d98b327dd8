package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
	"github.com/mohammadpnp/graph-user-import/internal/bootstrap"
)

func newMigrateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the users table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := bootstrap.OpenDatabase(cmd.Context(), rt.cfg.Database, rt.logger)
			if err != nil {
				return fmt.Errorf("%w: %w", app.ErrDatabase, err)
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				return fmt.Errorf("%w: %w", app.ErrDatabase, err)
			}

			rt.logger.Infow("migrations applied", "driver", db.Driver)
			fmt.Fprintln(cmd.OutOrStdout(), "users table is up to date")
			return nil
		},
	}
}
