package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/platform/sqlite"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// storage bundles the stores of the configured backend.
type storage struct {
	stores store.Stores
	tx     store.TxRunner
	close  func() error
}

// openStorage connects to the configured backend. PostgreSQL is migrated
// up to the latest embedded version; SQLite migrates its own schema.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storage, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
		}
		runner := sqlite.NewTxRunner(db, logger)
		logger.Info("database connection established", slog.String("driver", "sqlite"))
		return &storage{stores: runner.Stores(), tx: runner, close: sqlDB.Close}, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		runner := postgres.NewTxRunner(db, logger)
		logger.Info("database connection established", slog.String("driver", "postgres"))
		return &storage{stores: runner.Stores(), tx: runner, close: db.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// runMigrations executes a goose command against PostgreSQL. SQLite has no
// versioned migrations, so only "up" is accepted and it is a schema sync.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver == "sqlite" {
		if command != "up" {
			return fmt.Errorf("migration command %q is not supported for sqlite", command)
		}
		db, err := sqlite.Open(cfg.Database.URL, logger)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open postgres database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close database", slog.String("error", cerr.Error()))
		}
	}()
	return postgres.Migrate(ctx, db, command, logger)
}
