package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
)

// PostgresProgressStore implements store.ProgressStore on PostgreSQL.
// Insertion order is the BIGSERIAL seq column, not recorded_at, so two
// entries stamped in the same microsecond still list in append order.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a PostgreSQL implementation of the ProgressStore interface.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Append implements store.ProgressStore.Append as a single INSERT.
func (s *PostgresProgressStore) Append(ctx context.Context, entry *domain.ProgressEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO progress_entries (id, identity_id, level, score, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.IdentityID,
		entry.Level,
		entry.Score,
		entry.RecordedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("progress append for unknown identity",
				slog.String("identity_id", entry.IdentityID.String()))
			return fmt.Errorf("%w: identity %s not found", store.ErrInvalidEntity, entry.IdentityID)
		}
		log.Error("failed to append progress",
			slog.String("error", err.Error()),
			slog.String("identity_id", entry.IdentityID.String()))
		return MapError(err)
	}

	log.Debug("progress appended",
		slog.String("entry_id", entry.ID.String()),
		slog.String("identity_id", entry.IdentityID.String()),
		slog.Int("level", entry.Level))
	return nil
}

// List implements store.ProgressStore.List.
func (s *PostgresProgressStore) List(ctx context.Context, identityID uuid.UUID) ([]domain.ProgressEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, identity_id, level, score, recorded_at
		FROM progress_entries
		WHERE identity_id = $1
		ORDER BY seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query, identityID)
	if err != nil {
		log.Error("failed to list progress",
			slog.String("error", err.Error()),
			slog.String("identity_id", identityID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]domain.ProgressEntry, 0)
	for rows.Next() {
		var e domain.ProgressEntry
		if err := rows.Scan(&e.ID, &e.IdentityID, &e.Level, &e.Score, &e.RecordedAt); err != nil {
			return nil, MapError(err)
		}
		e.RecordedAt = e.RecordedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}

// Ranking implements store.ProgressStore.Ranking.
func (s *PostgresProgressStore) Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT i.display_name,
		       LEAST(GREATEST(SUM(p.score), -9223372036854775808), 9223372036854775807)::BIGINT AS total_score,
		       COUNT(*) AS entries
		FROM progress_entries p
		JOIN identities i ON i.id = p.identity_id
		GROUP BY i.id, i.display_name
		ORDER BY total_score DESC, i.display_name ASC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to compute ranking", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	ranking := make([]domain.RankingEntry, 0, limit)
	for rows.Next() {
		var r domain.RankingEntry
		if err := rows.Scan(&r.DisplayName, &r.TotalScore, &r.Entries); err != nil {
			return nil, MapError(err)
		}
		ranking = append(ranking, r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return ranking, nil
}
