package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
)

// DefaultActivityLevel is used when a caller does not name a level.
const DefaultActivityLevel = 1

// ActivityCatalog serves the built-in exercises.
type ActivityCatalog interface {
	// Seed inserts the catalog's activities that are missing and reports how
	// many were new. Running it again is a no-op.
	Seed(ctx context.Context) (int, error)

	// ListByLevel returns the activities of one level. level must be positive.
	ListByLevel(ctx context.Context, level int) ([]domain.Activity, error)
}

type activityCatalog struct {
	activities store.ActivityStore
	seed       []domain.Activity
	logger     *slog.Logger
}

var _ ActivityCatalog = (*activityCatalog)(nil)

// NewActivityCatalog creates an ActivityCatalog that seeds from seed.
func NewActivityCatalog(activities store.ActivityStore, seed []domain.Activity, logger *slog.Logger) ActivityCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &activityCatalog{
		activities: activities,
		seed:       seed,
		logger:     logger.With("component", "activity_catalog"),
	}
}

// Seed implements ActivityCatalog.
func (c *activityCatalog) Seed(ctx context.Context) (int, error) {
	n, err := c.activities.Seed(ctx, c.seed)
	if err != nil {
		return 0, NewServiceError("seed activities", err)
	}
	logger.FromContextOrDefault(ctx, c.logger).Info("activity catalog ready",
		"inserted", n,
		"catalog_size", len(c.seed))
	return n, nil
}

// ListByLevel implements ActivityCatalog.
func (c *activityCatalog) ListByLevel(ctx context.Context, level int) ([]domain.Activity, error) {
	if err := domain.ValidateLevel(level); err != nil {
		return nil, NewServiceError("list activities", err)
	}
	activities, err := c.activities.ListByLevel(ctx, level)
	if err != nil {
		return nil, NewServiceError("list activities", err)
	}
	return activities, nil
}
