package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/store"
)

// MockIdentityStore implements store.IdentityStore for testing.
type MockIdentityStore struct {
	CreateFn     func(ctx context.Context, identity *domain.Identity) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.Identity, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Identity, error)

	mu         sync.Mutex
	Identities map[string]*domain.Identity // keyed by normalized email
	CreateCalls int
}

var _ store.IdentityStore = (*MockIdentityStore)(nil)

// NewMockIdentityStore creates a mock backed by an empty map.
func NewMockIdentityStore() *MockIdentityStore {
	return &MockIdentityStore{Identities: make(map[string]*domain.Identity)}
}

// Create implements store.IdentityStore.
func (m *MockIdentityStore) Create(ctx context.Context, identity *domain.Identity) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, identity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := domain.NormalizeEmail(identity.Email)
	if _, exists := m.Identities[key]; exists {
		return store.ErrEmailExists
	}
	m.Identities[key] = identity
	return nil
}

// GetByEmail implements store.IdentityStore.
func (m *MockIdentityStore) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	identity, ok := m.Identities[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrIdentityNotFound
	}
	return identity, nil
}

// GetByID implements store.IdentityStore.
func (m *MockIdentityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, identity := range m.Identities {
		if identity.ID == id {
			return identity, nil
		}
	}
	return nil, store.ErrIdentityNotFound
}
