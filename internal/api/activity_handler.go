package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/service"
)

// ActivityHandler serves the activity catalog.
type ActivityHandler struct {
	catalog service.ActivityCatalog
	logger  *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(catalog service.ActivityCatalog, logger *slog.Logger) *ActivityHandler {
	if catalog == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog cannot be nil for ActivityHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "activity_handler")),
	}
}

// List handles GET /api/activities?level=N. The level defaults to 1.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	level, err := getIntQuery(r, "level", service.DefaultActivityLevel)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	activities, err := h.catalog.ListByLevel(r.Context(), level)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if activities == nil {
		activities = []domain.Activity{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ActivityListResponse{
		Level:      level,
		Total:      len(activities),
		Activities: activities,
	})
}
