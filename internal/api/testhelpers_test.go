package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/stretchr/testify/require"
)

var testIdentity = &domain.Identity{
	ID:          uuid.MustParse("7d1c2a44-5b7e-4bb4-9a1e-0d3f3f6a9c10"),
	DisplayName: "Ana",
	Email:       "a@x.com",
}

// newJSONRequest builds a request with an optional JSON body. A non-empty
// token is placed in the context the way the auth middleware would.
func newJSONRequest(t *testing.T, method, target, body, token string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	ctx := shared.SetTraceID(req.Context())
	if token != "" {
		ctx = shared.WithIdentity(ctx, testIdentity, token)
	}
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
