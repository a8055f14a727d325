package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/service/auth"
	"github.com/phrazzld/alfa-api/internal/store"
)

// CredentialManager registers identities, authenticates them, and verifies
// the bearer tokens it issues.
type CredentialManager interface {
	// Register creates an identity. Fails with domain.ErrInvalidInput or
	// domain.ErrDuplicateEmail; a duplicate leaves the existing identity untouched.
	Register(ctx context.Context, email, password, displayName string) (*domain.Identity, error)

	// Authenticate issues a token for matching credentials. An unknown email
	// and a wrong password both fail with domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (domain.BearerToken, error)

	// Verify resolves a token to its identity or fails with domain.ErrInvalidToken.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

type credentialManager struct {
	identities store.IdentityStore
	hasher     auth.PasswordHasher
	tokens     auth.JWTService
	validate   *validator.Validate
	logger     *slog.Logger

	// dummyHash is compared against when the email is unknown, so both
	// failure paths spend one bcrypt comparison.
	dummyHash string
}

var _ CredentialManager = (*credentialManager)(nil)

// NewCredentialManager creates a CredentialManager.
func NewCredentialManager(
	identities store.IdentityStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	logger *slog.Logger,
) (CredentialManager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash("alfa-dummy-password")
	if err != nil {
		return nil, NewServiceError("prepare dummy hash", err)
	}

	return &credentialManager{
		identities: identities,
		hasher:     hasher,
		tokens:     tokens,
		validate:   validator.New(),
		logger:     logger.With("component", "credential_manager"),
		dummyHash:  dummyHash,
	}, nil
}

// Register implements CredentialManager.
func (m *credentialManager) Register(
	ctx context.Context,
	email, password, displayName string,
) (*domain.Identity, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	email = domain.NormalizeEmail(email)
	if err := m.validate.Var(email, "required,email"); err != nil {
		return nil, NewServiceError("register", domain.NewValidationError("email", "must be a valid email address"))
	}
	if password == "" {
		return nil, NewServiceError("register", domain.NewValidationError("password", "cannot be empty"))
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, NewServiceError("register", domain.NewValidationError("display_name", "cannot be empty"))
	}

	// Hashing is slow; it happens before the store is touched so no lock or
	// transaction is held across it.
	hash, err := m.hasher.Hash(password)
	if err != nil {
		return nil, NewServiceError("register", err)
	}

	identity, err := domain.NewIdentity(email, displayName, hash)
	if err != nil {
		return nil, NewServiceError("register", err)
	}

	if err := m.identities.Create(ctx, identity); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			log.Debug("registration rejected: email already registered")
		} else {
			log.Error("failed to store identity", "error", err)
		}
		return nil, NewServiceError("register", err)
	}

	log.Info("identity registered", "identity_id", identity.ID)
	return identity, nil
}

// Authenticate implements CredentialManager.
func (m *credentialManager) Authenticate(
	ctx context.Context,
	email, password string,
) (domain.BearerToken, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	identity, err := m.identities.GetByEmail(ctx, email)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to load identity for authentication", "error", err)
			return domain.BearerToken{}, NewServiceError("authenticate", err)
		}
		_ = m.hasher.Compare(m.dummyHash, password)
		log.Debug("authentication failed")
		return domain.BearerToken{}, NewServiceError("authenticate", domain.ErrInvalidCredentials)
	}

	if err := m.hasher.Compare(identity.CredentialHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("credential comparison failed", "error", err, "identity_id", identity.ID)
		} else {
			log.Debug("authentication failed", "identity_id", identity.ID)
		}
		return domain.BearerToken{}, NewServiceError("authenticate", domain.ErrInvalidCredentials)
	}

	token, err := m.tokens.GenerateToken(ctx, identity.Email)
	if err != nil {
		return domain.BearerToken{}, NewServiceError("authenticate", err)
	}

	log.Info("identity authenticated", "identity_id", identity.ID)
	return token, nil
}

// Verify implements CredentialManager. It reads but never writes state.
func (m *credentialManager) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := m.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, NewServiceError("verify", domain.ErrInvalidToken)
	}

	identity, err := m.identities.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, m.logger).Debug("token subject no longer resolves")
			return nil, NewServiceError("verify", domain.ErrInvalidToken)
		}
		return nil, NewServiceError("verify", err)
	}

	return identity, nil
}
