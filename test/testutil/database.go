package testutil

import (
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/narwhalmedia/reelscout/pkg/database"
)

// NewTestDB opens a migrated in-memory sqlite session store that is closed
// when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewGormDB(&database.Config{
		Driver:   "sqlite",
		Path:     ":memory:",
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// TruncateTables removes all rows from the given tables.
func TruncateTables(t *testing.T, db *gorm.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("Failed to truncate table %s: %v", table, err)
		}
	}
}
