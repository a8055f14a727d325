package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/alfa-api/internal/api"
	apiMiddleware "github.com/phrazzld/alfa-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.credentials, app.logger)
	progressHandler := api.NewProgressHandler(app.ledger, app.logger)
	activityHandler := api.NewActivityHandler(app.activities, app.logger)
	healthHandler := api.NewHealthHandler(app.store, version, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.credentials)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/token", authHandler.Token)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/me", authHandler.Me)
			r.Get("/progress", progressHandler.List)
			r.Post("/progress", progressHandler.Append)
			r.Get("/ranking", progressHandler.Ranking)
			r.Get("/activities", activityHandler.List)
		})
	})

	return r
}
