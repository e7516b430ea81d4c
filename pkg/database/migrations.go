package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/narwhalmedia/reelscout/internal/session/repository"
)

// Migration records an applied schema version
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// MigrationFunc is a function that performs a migration
type MigrationFunc func(*gorm.DB) error

// MigrationEntry represents a single migration
type MigrationEntry struct {
	Version string
	Name    string
	Up      MigrationFunc
}

// Migrator applies the versioned session store schema
type Migrator struct {
	db         *gorm.DB
	migrations []MigrationEntry
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getAllMigrations(),
	}
}

// Migrate runs all pending migrations
func (m *Migrator) Migrate() error {
	// Ensure migrations table exists
	if err := m.db.AutoMigrate(&Migration{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Get applied migrations
	var appliedMigrations []Migration
	if err := m.db.Find(&appliedMigrations).Error; err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	// Create a map of applied versions
	applied := make(map[string]bool)
	for _, migration := range appliedMigrations {
		applied[migration.Version] = true
	}

	// Run pending migrations
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}

		// Run migration in a transaction
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}

			// Record migration
			return tx.Create(&Migration{
				Version:   migration.Version,
				Name:      migration.Name,
				AppliedAt: time.Now(),
			}).Error
		})

		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration.Version, err)
		}
	}

	return nil
}

// GetPendingMigrations returns a list of pending migrations
func (m *Migrator) GetPendingMigrations() ([]MigrationEntry, error) {
	// Get applied migrations
	var appliedMigrations []Migration
	if m.db.Migrator().HasTable(&Migration{}) {
		if err := m.db.Find(&appliedMigrations).Error; err != nil {
			return nil, fmt.Errorf("failed to get applied migrations: %w", err)
		}
	}

	// Create a map of applied versions
	applied := make(map[string]bool)
	for _, migration := range appliedMigrations {
		applied[migration.Version] = true
	}

	// Find pending migrations
	var pending []MigrationEntry
	for _, migration := range m.migrations {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}

	return pending, nil
}

// getAllMigrations returns all migrations in order
func getAllMigrations() []MigrationEntry {
	return []MigrationEntry{
		{
			Version: "20250601_001",
			Name:    "Create sessions table",
			Up:      migration001CreateSessions,
		},
		{
			Version: "20250601_002",
			Name:    "Index sessions by last use and username",
			Up:      migration002AddSessionIndexes,
		},
	}
}

func migration001CreateSessions(tx *gorm.DB) error {
	if err := tx.AutoMigrate(&repository.SessionModel{}); err != nil {
		return fmt.Errorf("failed to migrate session model: %w", err)
	}
	return nil
}

// Plain CREATE INDEX IF NOT EXISTS works on both sqlite and postgres.
func migration002AddSessionIndexes(tx *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_sessions_last_used_at ON sessions(last_used_at)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_username ON sessions(username)",
	}

	for _, stmt := range indexes {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
