package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/redact"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthCheckTimeout bounds the store ping behind /health.
const healthCheckTimeout = 2 * time.Second

// HealthHandler serves the service root and health endpoints.
type HealthHandler struct {
	store   Pinger
	version string
	logger  *slog.Logger
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store Pinger, version string, logger *slog.Logger) *HealthHandler {
	if store == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("store cannot be nil for HealthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		store:   store,
		version: version,
		logger:  logger.With(slog.String("component", "health_handler")),
		now:     time.Now,
	}
}

// Health handles GET /health: 200 when the store answers a ping, 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: h.now().UTC(),
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("health check failed",
			"error", redact.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	shared.RespondWithJSON(w, r, status, resp)
}

// Root handles GET /, describing the service and its endpoints.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
		"message": "Alfa literacy training API",
		"version": h.version,
		"endpoints": map[string][]string{
			"auth":       {"/api/auth/register", "/api/auth/login", "/api/auth/token", "/api/me"},
			"progress":   {"/api/progress", "/api/ranking"},
			"activities": {"/api/activities"},
			"health":     {"/health"},
		},
	})
}
