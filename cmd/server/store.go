package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/alfa-api/internal/config"
	"github.com/phrazzld/alfa-api/internal/platform/bolt"
	"github.com/phrazzld/alfa-api/internal/platform/memory"
	"github.com/phrazzld/alfa-api/internal/platform/postgres"
	"github.com/phrazzld/alfa-api/internal/store"
)

// openStore opens the backend named by the database driver. Postgres
// migrations run first when auto_migrate is set.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := postgres.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, pg.DB(), logger); err != nil {
				_ = pg.Close()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		logger.Info("postgres store opened", "auto_migrate", cfg.Database.AutoMigrate)
		return pg, nil

	case config.DriverBolt:
		b, err := bolt.Open(cfg.Database.BoltPath, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		logger.Info("bolt store opened", "path", cfg.Database.BoltPath)
		return b, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; data will not survive a restart")
		return memory.New(logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// migrateDatabase applies pending Postgres migrations and closes the
// connection. Other drivers have no schema to migrate.
func migrateDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		logger.Info("nothing to migrate", "database_driver", cfg.Database.Driver)
		return nil
	}

	pg, err := postgres.Open(ctx, cfg.Database.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to open postgres store: %w", err)
	}
	defer func() {
		if err := pg.Close(); err != nil {
			logger.Error("failed to close database after migration", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, pg.DB(), logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}
