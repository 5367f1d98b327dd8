package repository_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/mohammadpnp/graph-user-import/internal/domain/user"
	"github.com/mohammadpnp/graph-user-import/internal/infrastructure/db/models"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func mustRow(t *testing.T, raw string) domain.Row {
	t.Helper()

	row, err := domain.NewRow(json.RawMessage(raw))
	require.NoError(t, err)
	return row
}

func strPtr(s string) *string { return &s }
