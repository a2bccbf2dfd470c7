package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/infrastructure/config"
	"github.com/pdv/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory SQLite database with every table migrated
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	database, err := Open(sqlite.Open(dsn), config.DatabaseConfig{MaxOpenConns: 1}, Options{LogLevel: gormlogger.Silent})
	require.NoError(t, err)
	require.NoError(t, database.DB.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		_ = database.Close()
	})
	return database.DB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
