package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/graph-user-import/internal/application/user"
	"github.com/mohammadpnp/graph-user-import/internal/bootstrap"
)

func newServeCommand(rt *runtime) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the users read API and the import endpoint over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := bootstrap.OpenDatabase(ctx, rt.cfg.Database, rt.logger)
			if err != nil {
				return fmt.Errorf("%w: %w", app.ErrDatabase, err)
			}
			defer db.Close()

			if migrate {
				if err := db.Migrate(); err != nil {
					return fmt.Errorf("%w: %w", app.ErrDatabase, err)
				}
			}

			server := bootstrap.NewHTTPServer(db, rt.cfg, rt.logger)
			server.Server.ReadTimeout = rt.cfg.Server.ReadTimeout
			server.Server.WriteTimeout = rt.cfg.Server.WriteTimeout

			addr := rt.cfg.Server.Address()
			errCh := make(chan error, 1)
			go func() {
				rt.logger.Infow("http server listening", "addr", addr)
				if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
			defer cancel()

			rt.logger.Infow("shutting down http server")
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")

	return cmd
}
