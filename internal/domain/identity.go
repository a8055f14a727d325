package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity represents one registered user of the literacy service.
// Its progress log lives in a separate, append-only collection keyed by ID.
type Identity struct {
	ID             uuid.UUID `json:"id"`
	DisplayName    string    `json:"display_name"`
	Email          string    `json:"email"`
	CredentialHash string    `json:"-"` // Never expose the hash in JSON
	CreatedAt      time.Time `json:"created_at"`
}

// NormalizeEmail returns the uniqueness key for an email address.
// Emails are compared case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewIdentity creates a new Identity from an already computed credential hash.
// The email is normalized and a fresh ID and creation time are assigned.
// Returns an error if validation fails.
func NewIdentity(email, displayName, credentialHash string) (*Identity, error) {
	identity := &Identity{
		ID:             uuid.New(),
		DisplayName:    strings.TrimSpace(displayName),
		Email:          NormalizeEmail(email),
		CredentialHash: credentialHash,
		CreatedAt:      time.Now().UTC(),
	}

	if err := identity.Validate(); err != nil {
		return nil, err
	}

	return identity, nil
}

// Validate checks that the Identity has the fields every stored record needs.
// Email syntax is checked by the credential manager before hashing.
func (i *Identity) Validate() error {
	if i.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if i.Email == "" {
		return NewValidationError("email", "cannot be empty")
	}
	if i.DisplayName == "" {
		return NewValidationError("display_name", "cannot be empty")
	}
	if i.CredentialHash == "" {
		return NewValidationError("credential_hash", "cannot be empty")
	}
	return nil
}
