package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/service"
)

// ProgressHandler handles the progress log and ranking endpoints.
// The ledger re-verifies the token the auth middleware already checked.
type ProgressHandler struct {
	ledger service.ProgressLedger
	logger *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(ledger service.ProgressLedger, logger *slog.Logger) *ProgressHandler {
	if ledger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("ledger cannot be nil for ProgressHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		ledger: ledger,
		logger: logger.With(slog.String("component", "progress_handler")),
	}
}

// Append handles POST /api/progress.
func (h *ProgressHandler) Append(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	token, ok := getTokenFromContext(w, r, log)
	if !ok {
		return
	}

	var req AppendProgressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "")
		return
	}

	entry, err := h.ledger.Append(r.Context(), token, *req.Level, *req.Score)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, entryToResponse(*entry))
}

// List handles GET /api/progress.
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	token, ok := getTokenFromContext(w, r, log)
	if !ok {
		return
	}

	entries, err := h.ledger.List(r.Context(), token)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := ProgressListResponse{Entries: make([]ProgressEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, entryToResponse(entry))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Ranking handles GET /api/ranking?limit=N.
func (h *ProgressHandler) Ranking(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	token, ok := getTokenFromContext(w, r, log)
	if !ok {
		return
	}

	limit, err := getIntQuery(r, "limit", service.DefaultRankingLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	ranking, err := h.ledger.Ranking(r.Context(), token, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if ranking == nil {
		ranking = []domain.RankingEntry{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RankingResponse{Ranking: ranking})
}
