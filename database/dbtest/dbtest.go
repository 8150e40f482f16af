// Package dbtest testler için migrasyonları uygulanmış bellek içi SQLite veritabanı sağlar.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"salonsuite/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var counter atomic.Int64

// New her test için ayrı bir veritabanı açar. Tek bağlantı kullanılır;
// transaction içindeki sorgular context üzerinden tx'i taşımalıdır.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:salonsuite_test_%d?mode=memory&cache=shared&_foreign_keys=1", counter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrationsInOrder(db))
	return db
}
