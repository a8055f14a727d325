package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/alfa-api/internal/catalog"
	"github.com/phrazzld/alfa-api/internal/config"
	"github.com/phrazzld/alfa-api/internal/service"
	"github.com/phrazzld/alfa-api/internal/service/auth"
	"github.com/phrazzld/alfa-api/internal/store"
)

// application holds the shared dependencies of the server and closes them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	store  store.Store

	credentials service.CredentialManager
	ledger      service.ProgressLedger
	activities  service.ActivityCatalog
}

// newApplication wires the services onto an already opened store.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	st store.Store,
	hasher auth.PasswordHasher,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		store:  st,
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.credentials, err = service.NewCredentialManager(st.Identities(), hasher, jwtService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential manager: %w", err)
	}
	app.ledger = service.NewProgressLedger(app.credentials, st.Progress(), logger)
	app.activities = service.NewActivityCatalog(st.Activities(), catalog.Activities(), logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run seeds the activity catalog and serves HTTP until ctx is done.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if _, err := app.activities.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed activity catalog: %w", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the store.
func (app *application) cleanup() {
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.logger.Error("error closing store", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
