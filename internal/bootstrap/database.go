package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mohammadpnp/graph-user-import/internal/config"
	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
	"github.com/mohammadpnp/graph-user-import/internal/infrastructure/db/migrations"
	"github.com/mohammadpnp/graph-user-import/internal/infrastructure/repository"
)

// Database bundles the connections used by the commands. Pool is only set for
// PostgreSQL.
type Database struct {
	Driver string
	Gorm   *gorm.DB
	Pool   *pgxpool.Pool

	logger *zap.SugaredLogger
}

// OpenDatabase connects to the configured backend. Connecting is retried with
// exponential backoff; statements never are.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.SugaredLogger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	log := logger.With("driver", cfg.Driver, "dsn", cfg.RedactedDSN())

	var db *Database
	attempt := 0
	connect := func() error {
		attempt++
		var err error
		db, err = connectOnce(ctx, cfg, logger)
		if errors.Is(err, errInvalidDSN) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(max(cfg.ConnectAttempts-1, 0))),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		log.Warnw("database connect failed, retrying",
			"attempt", attempt,
			"max_attempts", cfg.ConnectAttempts,
			"retry_in", wait,
			"error", cfg.SanitizeError(err),
		)
	}

	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempt(s): %w", attempt, cfg.SanitizeError(err))
	}

	log.Infow("database connected", "attempts", attempt)
	return db, nil
}

var errInvalidDSN = errors.New("invalid database connection string")

func connectOnce(ctx context.Context, cfg config.DatabaseConfig, logger *zap.SugaredLogger) (*Database, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormLogLevel(logger))}

	switch cfg.Driver {
	case config.DriverSQLite:
		gdb, err := gorm.Open(sqlite.Open(cfg.DSN()), gormCfg)
		if err != nil {
			return nil, err
		}
		db := &Database{Driver: cfg.Driver, Gorm: gdb, logger: logger}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil

	case config.DriverPostgres:
		poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidDSN, err)
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		gdb, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return &Database{Driver: cfg.Driver, Gorm: gdb, Pool: pool, logger: logger}, nil

	default:
		return nil, backoff.Permanent(fmt.Errorf("unsupported driver %q", cfg.Driver))
	}
}

func gormLogLevel(logger *zap.SugaredLogger) gormlogger.LogLevel {
	if logger.Desugar().Core().Enabled(zapcore.DebugLevel) {
		return gormlogger.Info
	}
	return gormlogger.Silent
}

// ImportStore returns the transactional writer for the active backend.
func (d *Database) ImportStore() domain.ImportStore {
	if d.Pool != nil {
		return repository.NewUserImportRepository(d.Pool, d.logger)
	}
	return repository.NewUserImportGormRepository(d.Gorm)
}

func (d *Database) QueryRepository() *repository.UserQueryRepository {
	return repository.NewUserQueryRepository(d.Gorm)
}

func (d *Database) Migrate() error {
	return migrations.Up(d.Gorm, d.Driver)
}

func (d *Database) Ping(ctx context.Context) error {
	if d.Pool != nil {
		return d.Pool.Ping(ctx)
	}
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every connection. It is safe to call on a nil Database.
func (d *Database) Close() {
	if d == nil {
		return
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
	if d.Gorm != nil {
		if sqlDB, err := d.Gorm.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
