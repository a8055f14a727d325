package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/store"
)

// MockProgressStore implements store.ProgressStore for testing.
type MockProgressStore struct {
	AppendFn  func(ctx context.Context, entry *domain.ProgressEntry) error
	ListFn    func(ctx context.Context, identityID uuid.UUID) ([]domain.ProgressEntry, error)
	RankingFn func(ctx context.Context, limit int) ([]domain.RankingEntry, error)

	LastRankingLimit int
}

var _ store.ProgressStore = (*MockProgressStore)(nil)

// Append implements store.ProgressStore.
func (m *MockProgressStore) Append(ctx context.Context, entry *domain.ProgressEntry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, entry)
	}
	return nil
}

// List implements store.ProgressStore.
func (m *MockProgressStore) List(ctx context.Context, identityID uuid.UUID) ([]domain.ProgressEntry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, identityID)
	}
	return []domain.ProgressEntry{}, nil
}

// Ranking implements store.ProgressStore.
func (m *MockProgressStore) Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	m.LastRankingLimit = limit
	if m.RankingFn != nil {
		return m.RankingFn(ctx, limit)
	}
	return []domain.RankingEntry{}, nil
}
