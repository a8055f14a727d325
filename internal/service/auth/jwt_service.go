package auth

import (
	"context"
	"time"

	"github.com/phrazzld/alfa-api/internal/domain"
)

// JWTService issues and validates bearer tokens.
type JWTService interface {
	// GenerateToken creates a signed token whose subject is the given email.
	GenerateToken(ctx context.Context, subject string) (domain.BearerToken, error)

	// ValidateToken checks signature and expiry and returns the claims.
	// Every failure matches domain.ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a bearer token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
