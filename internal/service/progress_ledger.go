package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
)

// Ranking limits.
const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// ProgressLedger appends to and reads an identity's progress log. Every call
// verifies the token itself, even when a transport already did.
type ProgressLedger interface {
	// Append records (level, score) for the token's identity, stamped with the
	// server time. Fails with domain.ErrInvalidToken or domain.ErrInvalidInput.
	Append(ctx context.Context, token string, level, score int) (*domain.ProgressEntry, error)

	// List returns the token's identity's log in insertion order.
	List(ctx context.Context, token string) ([]domain.ProgressEntry, error)

	// Ranking returns the top identities by total score. limit must be in
	// [1, MaxRankingLimit]; zero means DefaultRankingLimit.
	Ranking(ctx context.Context, token string, limit int) ([]domain.RankingEntry, error)
}

type progressLedger struct {
	credentials CredentialManager
	progress    store.ProgressStore
	logger      *slog.Logger
}

var _ ProgressLedger = (*progressLedger)(nil)

// NewProgressLedger creates a ProgressLedger.
func NewProgressLedger(credentials CredentialManager, progress store.ProgressStore, logger *slog.Logger) ProgressLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &progressLedger{
		credentials: credentials,
		progress:    progress,
		logger:      logger.With("component", "progress_ledger"),
	}
}

// Append implements ProgressLedger.
func (l *progressLedger) Append(ctx context.Context, token string, level, score int) (*domain.ProgressEntry, error) {
	identity, err := l.credentials.Verify(ctx, token)
	if err != nil {
		return nil, NewServiceError("append progress", err)
	}

	entry, err := domain.NewProgressEntry(identity.ID, level, score)
	if err != nil {
		return nil, NewServiceError("append progress", err)
	}

	if err := l.progress.Append(ctx, entry); err != nil {
		// The identity was just resolved; losing it here means it vanished mid-call.
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, NewServiceError("append progress", domain.ErrInvalidToken)
		}
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to append progress",
			"error", err,
			"identity_id", identity.ID)
		return nil, NewServiceError("append progress", err)
	}

	logger.FromContextOrDefault(ctx, l.logger).Info("progress recorded",
		"identity_id", identity.ID,
		"entry_id", entry.ID,
		"level", entry.Level)
	return entry, nil
}

// List implements ProgressLedger.
func (l *progressLedger) List(ctx context.Context, token string) ([]domain.ProgressEntry, error) {
	identity, err := l.credentials.Verify(ctx, token)
	if err != nil {
		return nil, NewServiceError("list progress", err)
	}

	entries, err := l.progress.List(ctx, identity.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to list progress",
			"error", err,
			"identity_id", identity.ID)
		return nil, NewServiceError("list progress", err)
	}
	return entries, nil
}

// Ranking implements ProgressLedger.
func (l *progressLedger) Ranking(ctx context.Context, token string, limit int) ([]domain.RankingEntry, error) {
	if _, err := l.credentials.Verify(ctx, token); err != nil {
		return nil, NewServiceError("ranking", err)
	}

	if limit == 0 {
		limit = DefaultRankingLimit
	}
	if limit < 1 || limit > MaxRankingLimit {
		return nil, NewServiceError("ranking", domain.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", MaxRankingLimit)))
	}

	ranking, err := l.progress.Ranking(ctx, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to compute ranking", "error", err)
		return nil, NewServiceError("ranking", err)
	}
	return ranking, nil
}
