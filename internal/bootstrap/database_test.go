package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammadpnp/graph-user-import/internal/bootstrap"
	"github.com/mohammadpnp/graph-user-import/internal/config"
	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
	"github.com/mohammadpnp/graph-user-import/internal/infrastructure/repository"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		SQLitePath:      filepath.Join(t.TempDir(), "users.db"),
		ConnectAttempts: 1,
		ConnectTimeout:  5 * time.Second,
	}
}

func openSQLite(t *testing.T) *bootstrap.Database {
	t.Helper()

	db, err := bootstrap.OpenDatabase(context.Background(), sqliteConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate())
	return db
}

func TestOpenDatabase_SQLite(t *testing.T) {
	db := openSQLite(t)

	assert.Equal(t, config.DriverSQLite, db.Driver)
	assert.Nil(t, db.Pool)
	require.NoError(t, db.Ping(context.Background()))

	store := db.ImportStore()
	assert.IsType(t, &repository.UserImportGormRepository{}, store)

	row, err := domain.NewRow([]byte(`{"id":"1","mail":"a@x.com"}`))
	require.NoError(t, err)
	result, err := store.InsertSkipExisting(context.Background(), []domain.Row{row})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Inserted)

	count, err := db.QueryRepository().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestOpenDatabase_RetriesThenFails(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            "127.0.0.1",
		Port:            1,
		Name:            "meeting_scheduler",
		User:            "scheduler",
		Password:        "s3cret-pass",
		SSLMode:         "disable",
		ConnectAttempts: 2,
		ConnectTimeout:  10 * time.Second,
	}

	_, err := bootstrap.OpenDatabase(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempt(s)")
	assert.NotContains(t, err.Error(), "s3cret-pass")
}

func TestOpenDatabase_InvalidURLIsNotRetried(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		URL:             "postgres://%zz",
		ConnectAttempts: 5,
		ConnectTimeout:  10 * time.Second,
	}

	_, err := bootstrap.OpenDatabase(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 attempt(s)")
}

func TestDatabase_CloseNil(t *testing.T) {
	var db *bootstrap.Database
	assert.NotPanics(t, db.Close)
}
