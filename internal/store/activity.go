package store

import (
	"context"

	"github.com/phrazzld/alfa-api/internal/domain"
)

// ActivityStore defines the interface for the read-mostly activity catalog.
type ActivityStore interface {
	// Seed inserts the activities that are not already present, matched on
	// (level, kind, content). It returns how many were inserted.
	Seed(ctx context.Context, activities []domain.Activity) (int, error)

	// ListByLevel returns the activities of one level ordered by ID.
	// An unknown level yields an empty, non-nil slice.
	ListByLevel(ctx context.Context, level int) ([]domain.Activity, error)
}
