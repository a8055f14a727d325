// Package client is a Go client for the Alfa HTTP API.
//
//	c := client.New("http://localhost:8080")
//	token, err := c.Login(ctx, "a@x.com", password)
//	c.SetToken(token.Token)
//	entry, err := c.AppendProgress(ctx, 3, 80)
//
// Failed calls return *APIError carrying the server's stable error code.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/alfa-api/internal/api"
	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
)

// DefaultTimeout bounds each request made with the default HTTP client.
const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       domain.ErrorKind
	Message    string
	TraceID    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("%s (%s, status %d, trace %s)", e.Message, e.Code, e.StatusCode, e.TraceID)
	}
	return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Code, e.StatusCode)
}

// Is lets errors.Is match an APIError against the domain sentinels, so
// callers can test errors.Is(err, domain.ErrInvalidToken).
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case domain.KindDuplicateEmail:
		return target == domain.ErrDuplicateEmail
	case domain.KindInvalidCredentials:
		return target == domain.ErrInvalidCredentials
	case domain.KindInvalidToken:
		return target == domain.ErrInvalidToken
	case domain.KindInvalidInput:
		return target == domain.ErrInvalidInput
	case domain.KindStoreUnavailable:
		return target == domain.ErrStoreUnavailable
	}
	return false
}

// Client calls the Alfa API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on authenticated calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates an identity.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (*api.IdentityResponse, error) {
	var out api.IdentityResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", false, api.RegisterRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns the issued token. It does not store it;
// call SetToken to use it.
func (c *Client) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	var out api.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", false, api.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the identity the current token belongs to.
func (c *Client) Me(ctx context.Context) (*api.IdentityResponse, error) {
	var out api.IdentityResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AppendProgress records a score at a level.
func (c *Client) AppendProgress(ctx context.Context, level, score int) (*api.ProgressEntryResponse, error) {
	var out api.ProgressEntryResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/progress", true, api.AppendProgressRequest{
		Level: &level,
		Score: &score,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProgress returns the current identity's progress log in order.
func (c *Client) ListProgress(ctx context.Context) ([]api.ProgressEntryResponse, error) {
	var out api.ProgressListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/progress", true, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// Ranking returns the leaderboard. A zero limit uses the server default.
func (c *Client) Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	path := "/api/ranking"
	if limit != 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out api.RankingResponse
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out.Ranking, nil
}

// Activities returns the catalog entries of a level. A zero level uses the
// server default.
func (c *Client) Activities(ctx context.Context, level int) (*api.ActivityListResponse, error) {
	path := "/api/activities"
	if level != 0 {
		path += "?" + url.Values{"level": {strconv.Itoa(level)}}.Encode()
	}
	var out api.ActivityListResponse
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports the server's health. A 503 is returned as a response, not an error.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET /health: %w", err)
	}
	defer resp.Body.Close()

	var out api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode health response: %w", err)
	}
	return &out, nil
}

// ErrNoToken is returned by authenticated calls made before a token is set.
var ErrNoToken = errors.New("not logged in")

func (c *Client) doJSON(ctx context.Context, method, path string, authenticated bool, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if authenticated {
		token := c.Token()
		if token == "" {
			return ErrNoToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: domain.KindInternal}

	var body shared.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, shared.MaxBodyBytes))
	if err := json.Unmarshal(raw, &body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
		apiErr.TraceID = body.TraceID
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
