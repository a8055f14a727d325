package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
)

// PostgresIdentityStore implements store.IdentityStore on PostgreSQL.
type PostgresIdentityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresIdentityStore creates a PostgreSQL implementation of the IdentityStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresIdentityStore(db store.DBTX, logger *slog.Logger) *PostgresIdentityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresIdentityStore{
		db:     db,
		logger: logger.With(slog.String("component", "identity_store")),
	}
}

var _ store.IdentityStore = (*PostgresIdentityStore)(nil)

// Create implements store.IdentityStore.Create.
// The unique index on email makes the insert the only arbiter of a
// registration race: the loser receives store.ErrEmailExists.
func (s *PostgresIdentityStore) Create(ctx context.Context, identity *domain.Identity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	identity.Email = domain.NormalizeEmail(identity.Email)
	if err := identity.Validate(); err != nil {
		log.Warn("identity validation failed during create",
			slog.String("error", err.Error()),
			slog.String("identity_id", identity.ID.String()))
		return err
	}

	query := `
		INSERT INTO identities (id, email, display_name, credential_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		identity.ID,
		identity.Email,
		identity.DisplayName,
		identity.CredentialHash,
		identity.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered",
				slog.String("identity_id", identity.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create identity",
			slog.String("error", err.Error()),
			slog.String("identity_id", identity.ID.String()))
		return MapError(err)
	}

	log.Info("identity created",
		slog.String("identity_id", identity.ID.String()))
	return nil
}

// GetByID implements store.IdentityStore.GetByID.
func (s *PostgresIdentityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	query := `
		SELECT id, email, display_name, credential_hash, created_at
		FROM identities
		WHERE id = $1
	`
	return s.getOne(ctx, query, id)
}

// GetByEmail implements store.IdentityStore.GetByEmail.
func (s *PostgresIdentityStore) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `
		SELECT id, email, display_name, credential_hash, created_at
		FROM identities
		WHERE email = $1
	`
	return s.getOne(ctx, query, domain.NormalizeEmail(email))
}

func (s *PostgresIdentityStore) getOne(ctx context.Context, query string, arg any) (*domain.Identity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var identity domain.Identity
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&identity.ID,
		&identity.Email,
		&identity.DisplayName,
		&identity.CredentialHash,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrIdentityNotFound
		}
		log.Error("failed to read identity", slog.String("error", err.Error()))
		return nil, fmt.Errorf("read identity: %w", MapError(err))
	}

	identity.CreatedAt = identity.CreatedAt.UTC()
	return &identity, nil
}
