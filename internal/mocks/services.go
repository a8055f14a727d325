package mocks

import (
	"context"

	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/service"
)

// MockCredentialManager implements service.CredentialManager for testing.
type MockCredentialManager struct {
	RegisterFn     func(ctx context.Context, email, password, displayName string) (*domain.Identity, error)
	AuthenticateFn func(ctx context.Context, email, password string) (domain.BearerToken, error)
	VerifyFn       func(ctx context.Context, token string) (*domain.Identity, error)
}

var _ service.CredentialManager = (*MockCredentialManager)(nil)

// Register implements service.CredentialManager.
func (m *MockCredentialManager) Register(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, password, displayName)
	}
	return domain.NewIdentity(email, displayName, "hashed:"+password)
}

// Authenticate implements service.CredentialManager.
func (m *MockCredentialManager) Authenticate(ctx context.Context, email, password string) (domain.BearerToken, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return domain.BearerToken{}, domain.ErrInvalidCredentials
}

// Verify implements service.CredentialManager.
func (m *MockCredentialManager) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	return nil, domain.ErrInvalidToken
}

// MockProgressLedger implements service.ProgressLedger for testing.
type MockProgressLedger struct {
	AppendFn  func(ctx context.Context, token string, level, score int) (*domain.ProgressEntry, error)
	ListFn    func(ctx context.Context, token string) ([]domain.ProgressEntry, error)
	RankingFn func(ctx context.Context, token string, limit int) ([]domain.RankingEntry, error)
}

var _ service.ProgressLedger = (*MockProgressLedger)(nil)

// Append implements service.ProgressLedger.
func (m *MockProgressLedger) Append(ctx context.Context, token string, level, score int) (*domain.ProgressEntry, error) {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, token, level, score)
	}
	return nil, domain.ErrInvalidToken
}

// List implements service.ProgressLedger.
func (m *MockProgressLedger) List(ctx context.Context, token string) ([]domain.ProgressEntry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, token)
	}
	return []domain.ProgressEntry{}, nil
}

// Ranking implements service.ProgressLedger.
func (m *MockProgressLedger) Ranking(ctx context.Context, token string, limit int) ([]domain.RankingEntry, error) {
	if m.RankingFn != nil {
		return m.RankingFn(ctx, token, limit)
	}
	return []domain.RankingEntry{}, nil
}

// MockActivityCatalog implements service.ActivityCatalog for testing.
type MockActivityCatalog struct {
	SeedFn        func(ctx context.Context) (int, error)
	ListByLevelFn func(ctx context.Context, level int) ([]domain.Activity, error)
}

var _ service.ActivityCatalog = (*MockActivityCatalog)(nil)

// Seed implements service.ActivityCatalog.
func (m *MockActivityCatalog) Seed(ctx context.Context) (int, error) {
	if m.SeedFn != nil {
		return m.SeedFn(ctx)
	}
	return 0, nil
}

// ListByLevel implements service.ActivityCatalog.
func (m *MockActivityCatalog) ListByLevel(ctx context.Context, level int) ([]domain.Activity, error) {
	if m.ListByLevelFn != nil {
		return m.ListByLevelFn(ctx, level)
	}
	return []domain.Activity{}, nil
}
