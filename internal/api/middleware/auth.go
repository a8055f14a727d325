package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/service"
)

// AuthMiddleware verifies bearer tokens for protected routes.
type AuthMiddleware struct {
	credentials service.CredentialManager
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(credentials service.CredentialManager) *AuthMiddleware {
	return &AuthMiddleware{credentials: credentials}
}

// Authenticate verifies the token in the Authorization header and stores the
// resolved identity and the raw token in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, domain.KindInvalidToken, "Authorization header required")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, domain.KindInvalidToken, "Invalid authorization format")
			return
		}

		identity, err := m.credentials.Verify(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, domain.KindInvalidToken, "Invalid token")
			case errors.Is(err, domain.ErrStoreUnavailable):
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
					domain.KindStoreUnavailable, "Service temporarily unavailable", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					domain.KindInternal, "Authentication error", err)
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithIdentity(r.Context(), identity, token)))
	})
}
