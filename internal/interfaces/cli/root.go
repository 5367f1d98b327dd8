// Package cli holds the userimport command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mohammadpnp/graph-user-import/internal/config"
	"github.com/mohammadpnp/graph-user-import/internal/logger"
)

// runtime is the state shared by every subcommand once flags are parsed.
type runtime struct {
	cfg    config.Config
	logger *zap.SugaredLogger
}

type rootFlags struct {
	envFile string

	dbDriver    string
	databaseURL string
	dbHost      string
	dbPort      int
	dbName      string
	dbUser      string
	dbPassword  string
	dbSSLMode   string
	sqlitePath  string

	onInvalid string
	baseDir   string
	logLevel  string
}

func NewRootCommand() *cobra.Command {
	var (
		flags rootFlags
		rt    runtime
	)

	cmd := &cobra.Command{
		Use:           "userimport",
		Short:         "Import exported directory users into the users table",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(flags.envFile); err != nil {
				return fmt.Errorf("load %s: %w", flags.envFile, err)
			}

			cfg := config.LoadFromEnv()
			flags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.NewWithConfig(cfg.Logger)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			rt.cfg = cfg
			rt.logger = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVar(&flags.dbDriver, "db-driver", config.DriverPostgres, "database driver: postgres or sqlite")
	pf.StringVar(&flags.databaseURL, "database-url", "", "PostgreSQL connection URL, overrides the individual db-* flags")
	pf.StringVar(&flags.dbHost, "db-host", "localhost", "PostgreSQL host")
	pf.IntVar(&flags.dbPort, "db-port", 5432, "PostgreSQL port")
	pf.StringVar(&flags.dbName, "db-name", "meeting_scheduler", "PostgreSQL database name")
	pf.StringVar(&flags.dbUser, "db-user", "scheduler", "PostgreSQL user")
	pf.StringVar(&flags.dbPassword, "db-password", "scheduler", "PostgreSQL password")
	pf.StringVar(&flags.dbSSLMode, "db-sslmode", "disable", "PostgreSQL sslmode")
	pf.StringVar(&flags.sqlitePath, "sqlite-path", "users.db", "SQLite database file")
	pf.StringVar(&flags.onInvalid, "on-invalid", config.OnInvalidFail, "what to do with invalid records: fail or skip")
	pf.StringVar(&flags.baseDir, "base-dir", ".", "directory relative source paths are resolved against")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newImportCommand(&rt),
		newMigrateCommand(&rt),
		newServeCommand(&rt),
	)

	return cmd
}

// apply overrides cfg with every flag set on the command line.
func (f rootFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("db-driver") {
		cfg.Database.Driver = f.dbDriver
	}
	if changed("database-url") {
		cfg.Database.URL = f.databaseURL
	}
	if changed("db-host") {
		cfg.Database.Host = f.dbHost
	}
	if changed("db-port") {
		cfg.Database.Port = f.dbPort
	}
	if changed("db-name") {
		cfg.Database.Name = f.dbName
	}
	if changed("db-user") {
		cfg.Database.User = f.dbUser
	}
	if changed("db-password") {
		cfg.Database.Password = f.dbPassword
	}
	if changed("db-sslmode") {
		cfg.Database.SSLMode = f.dbSSLMode
	}
	if changed("sqlite-path") {
		cfg.Database.SQLitePath = f.sqlitePath
	}
	if changed("on-invalid") {
		cfg.Import.OnInvalid = f.onInvalid
	}
	if changed("base-dir") {
		cfg.Import.BaseDir = f.baseDir
	}
	if changed("log-level") {
		cfg.Logger.Level = f.logLevel
	}
}
