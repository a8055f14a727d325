package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
)

// PostgresActivityStore implements store.ActivityStore on PostgreSQL.
// It needs a *sql.DB rather than a DBTX because Seed opens its own transaction.
type PostgresActivityStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresActivityStore creates a PostgreSQL implementation of the ActivityStore interface.
func NewPostgresActivityStore(db *sql.DB, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Seed implements store.ActivityStore.Seed. All rows go in one transaction;
// rows that already exist are skipped by the (level, kind, content) key.
func (s *PostgresActivityStore) Seed(ctx context.Context, activities []domain.Activity) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i := range activities {
		if err := activities[i].Validate(); err != nil {
			return 0, fmt.Errorf("seed activity %d: %w", i, err)
		}
	}

	query := `
		INSERT INTO activities (kind, content, level, audio_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (level, kind, content) DO NOTHING
	`

	inserted := 0
	err := store.RunInTransaction(logger.WithLogger(ctx, log), s.db, func(ctx context.Context, tx *sql.Tx) error {
		inserted = 0
		for _, a := range activities {
			result, err := tx.ExecContext(ctx, query, string(a.Kind), a.Content, a.Level, a.AudioURL)
			if err != nil {
				return MapError(err)
			}
			n, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to seed activities", slog.String("error", err.Error()))
		return 0, err
	}

	log.Info("activities seeded",
		slog.Int("offered", len(activities)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

// ListByLevel implements store.ActivityStore.ListByLevel.
func (s *PostgresActivityStore) ListByLevel(ctx context.Context, level int) ([]domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, kind, content, level, audio_url
		FROM activities
		WHERE level = $1
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, level)
	if err != nil {
		log.Error("failed to list activities",
			slog.String("error", err.Error()),
			slog.Int("level", level))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	activities := make([]domain.Activity, 0)
	for rows.Next() {
		var a domain.Activity
		var kind string
		if err := rows.Scan(&a.ID, &kind, &a.Content, &a.Level, &a.AudioURL); err != nil {
			return nil, MapError(err)
		}
		a.Kind = domain.ActivityKind(kind)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return activities, nil
}
