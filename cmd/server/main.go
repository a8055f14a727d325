// Package main implements the entry point for the Alfa API server, which
// registers learners, issues bearer tokens, serves the literacy activity
// catalog, and records each learner's progress.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/alfa-api/internal/config"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/redact"
	"github.com/phrazzld/alfa-api/internal/service/auth"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply pending database migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateOnly); err != nil {
		slog.Error("server exited with error", "error", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, opens the store, and serves until ctx is done.
func run(ctx context.Context, migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		"version", version,
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	if migrateOnly {
		return migrateDatabase(ctx, cfg, log)
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, log, st, auth.NewBcryptHasher(auth.DefaultHashCost))
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
