package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/api"
	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/client"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer answers a fixed set of routes the way the real API does.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := chi.NewRouter()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			writeJSON(w, http.StatusUnauthorized, shared.ErrorResponse{
				Error: "Invalid token", Code: domain.KindInvalidToken, TraceID: "trace-1",
			})
			return false
		}
		return true
	}

	mux.MethodFunc("POST", "/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email == "taken@x.com" {
			writeJSON(w, http.StatusConflict, shared.ErrorResponse{Error: "Email already registered", Code: domain.KindDuplicateEmail})
			return
		}
		writeJSON(w, http.StatusCreated, api.IdentityResponse{ID: uuid.New(), Email: req.Email, DisplayName: req.DisplayName})
	})
	mux.MethodFunc("POST", "/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "pw1" {
			writeJSON(w, http.StatusUnauthorized, shared.ErrorResponse{Error: "Invalid credentials", Code: domain.KindInvalidCredentials})
			return
		}
		writeJSON(w, http.StatusOK, api.LoginResponse{Token: "good-token", ExpiresAt: time.Now().Add(time.Hour)})
	})
	mux.MethodFunc("GET", "/api/me", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, api.IdentityResponse{Email: "a@x.com", DisplayName: "Ana"})
		}
	})
	mux.MethodFunc("POST", "/api/progress", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		var req api.AppendProgressRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(w, http.StatusCreated, api.ProgressEntryResponse{ID: uuid.New(), Level: *req.Level, Score: *req.Score})
	})
	mux.MethodFunc("GET", "/api/progress", func(w http.ResponseWriter, r *http.Request) {
		if authorized(w, r) {
			writeJSON(w, http.StatusOK, api.ProgressListResponse{Entries: []api.ProgressEntryResponse{{Level: 3, Score: 80}}})
		}
	})
	mux.MethodFunc("GET", "/api/ranking", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, api.RankingResponse{Ranking: []domain.RankingEntry{{DisplayName: "Ana", TotalScore: 80, Entries: 1}}})
	})
	mux.MethodFunc("GET", "/api/activities", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, api.ActivityListResponse{
			Level: 2, Total: 1,
			Activities: []domain.Activity{{ID: 9, Kind: domain.ActivitySyllable, Content: "BA", Level: 2}},
		})
	})
	mux.MethodFunc("GET", "/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, api.HealthResponse{Status: "unhealthy", Database: "disconnected"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFlow(t *testing.T) {
	srv := fakeServer(t)
	c := client.New(srv.URL + "/")
	ctx := context.Background()

	identity, err := c.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", identity.DisplayName)

	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, client.ErrNoToken)

	login, err := c.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	c.SetToken(login.Token)
	assert.Equal(t, "good-token", c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)

	entry, err := c.AppendProgress(ctx, 3, 80)
	require.NoError(t, err)
	assert.Equal(t, 3, entry.Level)
	assert.Equal(t, 80, entry.Score)

	entries, err := c.ListProgress(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	ranking, err := c.Ranking(ctx, 5)
	require.NoError(t, err)
	require.Len(t, ranking, 1)
	assert.Equal(t, 80, ranking[0].TotalScore)

	activities, err := c.Activities(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, activities.Total)
	assert.Equal(t, "BA", activities.Activities[0].Content)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "unhealthy", health.Status)
}

func TestClientErrors(t *testing.T) {
	srv := fakeServer(t)
	ctx := context.Background()

	t.Run("duplicate email", func(t *testing.T) {
		_, err := client.New(srv.URL).Register(ctx, "taken@x.com", "pw", "X")

		var apiErr *client.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, domain.KindDuplicateEmail, apiErr.Code)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := client.New(srv.URL).Login(ctx, "a@x.com", "nope")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("rejected token keeps trace id", func(t *testing.T) {
		_, err := client.New(srv.URL, client.WithToken("stale")).Me(ctx)

		var apiErr *client.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "trace-1", apiErr.TraceID)
		assert.Contains(t, apiErr.Error(), "trace-1")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("non-json error body", func(t *testing.T) {
		plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		}))
		defer plain.Close()

		_, err := client.New(plain.URL, client.WithToken("t")).Me(ctx)

		var apiErr *client.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, domain.KindInternal, apiErr.Code)
		assert.Equal(t, "Bad Gateway", apiErr.Message)
	})

	t.Run("server unreachable", func(t *testing.T) {
		_, err := client.New("http://127.0.0.1:1").Login(ctx, "a@x.com", "pw1")
		require.Error(t, err)
		var apiErr *client.APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestAPIErrorIs(t *testing.T) {
	tests := []struct {
		code   domain.ErrorKind
		target error
	}{
		{domain.KindDuplicateEmail, domain.ErrDuplicateEmail},
		{domain.KindInvalidCredentials, domain.ErrInvalidCredentials},
		{domain.KindInvalidToken, domain.ErrInvalidToken},
		{domain.KindInvalidInput, domain.ErrInvalidInput},
		{domain.KindStoreUnavailable, domain.ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := error(&client.APIError{Code: tt.code})
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.code, domain.KindOf(err))
		})
	}

	internal := &client.APIError{Code: domain.KindInternal, StatusCode: 502, Message: "Bad Gateway"}
	assert.Equal(t, domain.KindInternal, domain.KindOf(internal))
	assert.Equal(t, "Bad Gateway (internal, status 502)", internal.Error())
}
