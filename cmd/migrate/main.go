package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	sessionrepo "github.com/narwhalmedia/reelscout/internal/session/repository"
	"github.com/narwhalmedia/reelscout/pkg/config"
	"github.com/narwhalmedia/reelscout/pkg/database"
	pkgrepo "github.com/narwhalmedia/reelscout/pkg/repository"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (defaults to the standard search paths)")
		status     = flag.Bool("status", false, "Show migration status")
		dryRun     = flag.Bool("dry-run", false, "Show pending migrations without applying them")
	)
	flag.Parse()

	cfg := config.GetDefaults("reelscout")
	manager := config.NewManager("reelscout")
	if *configPath != "" {
		manager = manager.WithConfigPaths(*configPath)
	}
	// Only the database section is needed; the rest may be incomplete.
	if err := manager.LoadConfig(cfg); err != nil {
		log.Printf("Config incomplete, using database settings only: %v", err)
	}

	dbConfig := cfg.Database.ToDatabaseConfig()
	db, err := database.NewGormDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	switch {
	case *status:
		showMigrationStatus(db)
	case *dryRun:
		showPendingMigrations(db)
	default:
		runMigrations(db)
	}
}

// runMigrations applies all pending migrations
func runMigrations(db *gorm.DB) {
	fmt.Println("Running database migrations...")

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	fmt.Println("Migrations completed successfully!")
}

// showMigrationStatus displays the current migration status
func showMigrationStatus(db *gorm.DB) {
	var migrations []database.Migration
	if db.Migrator().HasTable(&database.Migration{}) {
		if err := db.Order("applied_at DESC").Find(&migrations).Error; err != nil {
			log.Fatalf("Failed to get migrations: %v", err)
		}
	}

	if len(migrations) == 0 {
		fmt.Println("No migrations have been applied yet.")
	} else {
		fmt.Println("Applied migrations:")
		fmt.Println("==================")
		for _, m := range migrations {
			fmt.Printf("%s | %s | Applied at: %s\n", m.Version, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
		}
	}

	if db.Migrator().HasTable(&sessionrepo.SessionModel{}) {
		count, err := pkgrepo.Count[sessionrepo.SessionModel](context.Background(), db)
		if err != nil {
			log.Fatalf("Failed to count sessions: %v", err)
		}
		fmt.Printf("\nStored sessions: %d\n", count)
	}

	showPendingMigrations(db)
}

// showPendingMigrations displays migrations that would be applied
func showPendingMigrations(db *gorm.DB) {
	pending, err := database.GetPendingMigrations(db)
	if err != nil {
		log.Fatalf("Failed to get pending migrations: %v", err)
	}

	if len(pending) == 0 {
		fmt.Println("\nAll migrations are up to date!")
		return
	}

	fmt.Println("\nPending migrations:")
	fmt.Println("==================")
	for _, m := range pending {
		fmt.Printf("%s | %s\n", m.Version, m.Name)
	}
}
