package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/alfa-api/internal/config"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(tm time.Time) func() time.Time { return func() time.Time { return tm } }

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	lifetime := 60 * time.Minute
	svc := NewTestJWTService(testSecret, lifetime, at(fixedTime))

	token, err := svc.GenerateToken(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)
	assert.Equal(t, "ana@example.com", token.Subject)
	assert.Equal(t, fixedTime, token.IssuedAt)
	assert.Equal(t, fixedTime.Add(lifetime), token.ExpiresAt)

	claims, err := svc.ValidateToken(context.Background(), token.Value)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, token.ExpiresAt, claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)

	second, err := svc.GenerateToken(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token.Value, second.Value, "jti makes each token unique")
}

func TestValidateTokenExpiryBoundary(t *testing.T) {
	t.Parallel()

	lifetime := time.Hour
	token, err := NewTestJWTService(testSecret, lifetime, at(fixedTime)).
		GenerateToken(context.Background(), "ana@example.com")
	require.NoError(t, err)
	expiry := fixedTime.Add(lifetime)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "well before expiry", now: fixedTime.Add(time.Minute)},
		{name: "one second before expiry", now: expiry.Add(-time.Second)},
		{name: "exactly at expiry", now: expiry, wantErr: ErrExpiredToken},
		{name: "after expiry", now: expiry.Add(time.Hour), wantErr: ErrExpiredToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := NewTestJWTService(testSecret, lifetime, at(tt.now)).
				ValidateToken(context.Background(), token.Value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrInvalidToken)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", claims.Subject)
		})
	}
}

func TestValidateTokenRejects(t *testing.T) {
	t.Parallel()

	svc := NewTestJWTService(testSecret, time.Hour, at(fixedTime))
	valid, err := svc.GenerateToken(context.Background(), "ana@example.com")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "ana@example.com",
		ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512Token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "ana@example.com",
		ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "ana@example.com",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	parts := strings.Split(valid.Value, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	tests := []struct {
		name  string
		token string
		svc   JWTService
	}{
		{name: "empty", token: "", svc: svc},
		{name: "malformed", token: "this.is.not.a.valid.jwt.token", svc: svc},
		{name: "wrong secret", token: valid.Value, svc: NewTestJWTService("wrong-secret-that-is-long-enough-for-testing", time.Hour, at(fixedTime))},
		{name: "tampered signature", token: tampered, svc: svc},
		{name: "alg none", token: noneToken, svc: svc},
		{name: "HS512", token: hs512Token, svc: svc},
		{name: "missing exp", token: noExpiry, svc: svc},
		{name: "missing sub", token: noSubject, svc: svc},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := tt.svc.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
