package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/tango-api/internal/config"
	"github.com/phrazzld/tango-api/internal/platform/postgres"
	"github.com/phrazzld/tango-api/internal/platform/sqlite"
)

// setupAppDatabase opens the configured persistence backend and applies
// pending migrations. The driver selects between the cloud (postgres) and
// local (sqlite) backend; everything above the store layer is agnostic.
func setupAppDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	var (
		db            *sql.DB
		err           error
		dialect       string
		migrationsFS  fs.FS
		migrationsDir string
	)

	switch cfg.Database.Driver {
	case "postgres":
		db, err = sql.Open("pgx", cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database connection: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		dialect = "postgres"
		migrationsFS = postgres.MigrationsFS
		migrationsDir = postgres.MigrationsDir
	case "sqlite":
		db, err = sqlite.Open(cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		dialect = "sqlite3"
		migrationsFS = sqlite.MigrationsFS
		migrationsDir = sqlite.MigrationsDir
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db, dialect, migrationsFS, migrationsDir, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Database connection established",
		"driver", cfg.Database.Driver)
	return db, nil
}

// runMigrations applies the embedded goose migrations for the selected
// backend.
func runMigrations(db *sql.DB, dialect string, migrationsFS fs.FS, migrationsDir string, logger *slog.Logger) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Database migrations applied", "dialect", dialect)
	return nil
}
