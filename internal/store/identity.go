package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
)

// IdentityStore defines the interface for identity persistence.
type IdentityStore interface {
	// Create saves a new identity. The check for an existing email and the
	// insert happen as one atomic step keyed by the normalized email.
	// Returns ErrEmailExists if the email is already taken; nothing is written.
	// Returns validation errors from the domain Identity if data is invalid.
	Create(ctx context.Context, identity *domain.Identity) error

	// GetByID retrieves an identity by its unique ID.
	// Returns ErrIdentityNotFound if the identity does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error)

	// GetByEmail retrieves an identity by email. The lookup normalizes the email.
	// Returns ErrIdentityNotFound if the identity does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
}
