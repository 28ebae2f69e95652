package db

import (
	"fmt"
	"testing"

	"ask/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a private in-memory sqlite database, migrates it and
// installs it as DB for the duration of the test.
func SetupTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := Open(config.DriverSQLite, dsn, logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to get test database handle: %v", err)
	}
	// one connection keeps the shared in-memory database alive and makes
	// concurrent transactions queue instead of failing with SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(conn); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	previous := DB
	DB = conn
	t.Cleanup(func() {
		DB = previous
		_ = sqlDB.Close()
	})

	return conn
}
