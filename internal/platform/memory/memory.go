// Package memory implements the store interfaces in process memory. It backs
// the service and API tests and local runs with driver "memory"; nothing
// survives a restart.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
)

type activityKey struct {
	level   int
	kind    domain.ActivityKind
	content string
}

// Store is an in-memory store.Store. One RWMutex guards all collections, so
// every check-and-write is atomic.
type Store struct {
	mu     sync.RWMutex
	closed bool
	logger *slog.Logger

	byEmail    map[string]*domain.Identity
	byID       map[uuid.UUID]*domain.Identity
	progress   map[uuid.UUID][]domain.ProgressEntry
	activities []domain.Activity
	seeded     map[activityKey]struct{}
}

var (
	_ store.Store         = (*Store)(nil)
	_ store.IdentityStore = (*identities)(nil)
	_ store.ProgressStore = (*progress)(nil)
	_ store.ActivityStore = (*activities)(nil)
)

// New returns an empty, open Store.
func New(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		logger:   log.With(slog.String("component", "memory_store")),
		byEmail:  make(map[string]*domain.Identity),
		byID:     make(map[uuid.UUID]*domain.Identity),
		progress: make(map[uuid.UUID][]domain.ProgressEntry),
		seeded:   make(map[activityKey]struct{}),
	}
}

type (
	identities struct{ s *Store }
	progress   struct{ s *Store }
	activities struct{ s *Store }
)

// Identities implements store.Store.
func (s *Store) Identities() store.IdentityStore { return identities{s} }

// Progress implements store.Store.
func (s *Store) Progress() store.ProgressStore { return progress{s} }

// Activities implements store.Store.
func (s *Store) Activities() store.ActivityStore { return activities{s} }

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usable(ctx)
}

// Close implements store.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// usable must be called with mu held.
func (s *Store) usable(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return fmt.Errorf("%w: memory store closed", store.ErrUnavailable)
	}
	return nil
}

func (i identities) Create(ctx context.Context, identity *domain.Identity) error {
	identity.Email = domain.NormalizeEmail(identity.Email)
	if err := identity.Validate(); err != nil {
		return err
	}

	s := i.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(ctx); err != nil {
		return err
	}

	if _, exists := s.byEmail[identity.Email]; exists {
		return store.ErrEmailExists
	}
	stored := *identity
	s.byEmail[stored.Email] = &stored
	s.byID[stored.ID] = &stored

	logger.FromContextOrDefault(ctx, s.logger).Debug("identity created",
		slog.String("identity_id", stored.ID.String()))
	return nil
}

func (i identities) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	s := i.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	identity, ok := s.byID[id]
	if !ok {
		return nil, store.ErrIdentityNotFound
	}
	clone := *identity
	return &clone, nil
}

func (i identities) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	s := i.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	identity, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrIdentityNotFound
	}
	clone := *identity
	return &clone, nil
}

func (p progress) Append(ctx context.Context, entry *domain.ProgressEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(ctx); err != nil {
		return err
	}

	if _, ok := s.byID[entry.IdentityID]; !ok {
		return fmt.Errorf("%w: identity %s not found", store.ErrInvalidEntity, entry.IdentityID)
	}
	s.progress[entry.IdentityID] = append(s.progress[entry.IdentityID], *entry)
	return nil
}

func (p progress) List(ctx context.Context, identityID uuid.UUID) ([]domain.ProgressEntry, error) {
	s := p.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	log := s.progress[identityID]
	entries := make([]domain.ProgressEntry, len(log))
	copy(entries, log)
	return entries, nil
}

func (p progress) Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	s := p.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	ranking := make([]domain.RankingEntry, 0, len(s.progress))
	for id, log := range s.progress {
		if len(log) == 0 {
			continue
		}
		var sum domain.ScoreSum
		for _, e := range log {
			sum.Add(e.Score)
		}
		ranking = append(ranking, domain.RankingEntry{
			DisplayName: s.byID[id].DisplayName,
			TotalScore:  sum.Total(),
			Entries:     len(log),
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalScore != ranking[j].TotalScore {
			return ranking[i].TotalScore > ranking[j].TotalScore
		}
		return ranking[i].DisplayName < ranking[j].DisplayName
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

func (a activities) Seed(ctx context.Context, seed []domain.Activity) (int, error) {
	for i := range seed {
		if err := seed[i].Validate(); err != nil {
			return 0, fmt.Errorf("seed activity %d: %w", i, err)
		}
	}

	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usable(ctx); err != nil {
		return 0, err
	}

	inserted := 0
	for _, activity := range seed {
		key := activityKey{level: activity.Level, kind: activity.Kind, content: activity.Content}
		if _, exists := s.seeded[key]; exists {
			continue
		}
		s.seeded[key] = struct{}{}
		activity.ID = len(s.activities) + 1
		s.activities = append(s.activities, activity)
		inserted++
	}
	return inserted, nil
}

func (a activities) ListByLevel(ctx context.Context, level int) ([]domain.Activity, error) {
	s := a.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.usable(ctx); err != nil {
		return nil, err
	}

	out := make([]domain.Activity, 0)
	for _, activity := range s.activities {
		if activity.Level == level {
			out = append(out, activity)
		}
	}
	return out, nil
}
