package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing. By default a token's
// value is "token:" followed by its subject.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, subject string) (domain.BearerToken, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, subject string) (domain.BearerToken, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, subject)
	}
	now := time.Now().UTC()
	return domain.BearerToken{
		Value:     "token:" + subject,
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}, nil
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	const prefix = "token:"
	if len(tokenString) <= len(prefix) || tokenString[:len(prefix)] != prefix {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{
		Subject:   tokenString[len(prefix):],
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}
