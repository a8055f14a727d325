package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/service"
)

// AuthHandler handles registration, login, and identity lookup.
type AuthHandler struct {
	credentials service.CredentialManager
	logger      *slog.Logger
	now         func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(credentials service.CredentialManager, logger *slog.Logger) *AuthHandler {
	if credentials == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("credentials cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		credentials: credentials,
		logger:      logger.With(slog.String("component", "auth_handler")),
		now:         time.Now,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "")
		return
	}

	identity, err := h.credentials.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, identityToResponse(identity))
}

// Login handles POST /api/auth/login with a JSON body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "")
		return
	}

	token, err := h.credentials.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}

// Token handles POST /api/auth/token, the OAuth2 password-grant shape:
// form fields username (the email) and password.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, shared.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		HandleAPIError(w, r, invalidRequest(err), "Invalid request format")
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		HandleAPIError(w, r, domain.NewValidationError("form", "username and password are required"), "")
		return
	}

	token, err := h.credentials.Authenticate(r.Context(), username, password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	expiresIn := int64(token.ExpiresAt.Sub(h.now()).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	w.Header().Set("Cache-Control", "no-store")
	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token.Value,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
	})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("identity not found in request context")
		HandleAPIError(w, r, domain.ErrInvalidToken, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, identityToResponse(identity))
}
