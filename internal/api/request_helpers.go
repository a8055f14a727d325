package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
)

// getTokenFromContext returns the bearer token verified by the auth
// middleware. It writes a 401 and returns false when none is present.
func getTokenFromContext(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	token, ok := shared.TokenFromContext(r.Context())
	if !ok {
		log.Warn("bearer token not found in request context")
		HandleAPIError(w, r, domain.ErrInvalidToken, "")
		return "", false
	}
	return token, true
}

// getIntQuery parses an optional integer query parameter. A missing
// parameter yields def.
func getIntQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}
