// Package testdb opens throwaway in-memory SQLite databases for repository
// and service tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-fieldtime/internal/shared/connection"
)

func Open(t testing.TB, migrations ...func(*gorm.DB) error) *gorm.DB {
	t.Helper()

	db, err := connection.OpenSQLite(":memory:")
	require.NoError(t, err)

	for _, migrate := range migrations {
		require.NoError(t, migrate(db))
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
