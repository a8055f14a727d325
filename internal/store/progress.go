package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
)

// ProgressStore defines the interface for the append-only progress log.
// Entries are never updated or deleted.
type ProgressStore interface {
	// Append adds an entry to the end of its identity's log in one atomic step.
	// Concurrent appends for the same identity are all preserved.
	// Returns ErrInvalidEntity if the identity does not exist.
	Append(ctx context.Context, entry *domain.ProgressEntry) error

	// List returns an identity's entries in insertion order.
	// An identity without entries yields an empty, non-nil slice.
	List(ctx context.Context, identityID uuid.UUID) ([]domain.ProgressEntry, error)

	// Ranking returns at most limit identities ordered by total score
	// descending, ties broken by display name.
	Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error)
}
