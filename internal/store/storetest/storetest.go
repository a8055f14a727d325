// Package storetest holds a behavioural suite that every store.Store
// backend must pass. Backends call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, open store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("identity lifecycle", func(t *testing.T) { testIdentityLifecycle(t, newStore(t)) })
	t.Run("duplicate email", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("concurrent registration", func(t *testing.T) { testConcurrentRegistration(t, newStore(t)) })
	t.Run("progress order", func(t *testing.T) { testProgressOrder(t, newStore(t)) })
	t.Run("concurrent appends", func(t *testing.T) { testConcurrentAppends(t, newStore(t)) })
	t.Run("append unknown identity", func(t *testing.T) { testAppendUnknownIdentity(t, newStore(t)) })
	t.Run("ranking", func(t *testing.T) { testRanking(t, newStore(t)) })
	t.Run("large scores", func(t *testing.T) { testLargeScores(t, newStore(t)) })
	t.Run("activities", func(t *testing.T) { testActivities(t, newStore(t)) })
	t.Run("closed store", func(t *testing.T) { testClosed(t, newStore(t)) })
}

func closeOnCleanup(t *testing.T, s store.Store) {
	t.Cleanup(func() { _ = s.Close() })
}

// MustCreateIdentity registers an identity with a placeholder hash.
func MustCreateIdentity(t *testing.T, s store.IdentityStore, email, displayName string) *domain.Identity {
	t.Helper()
	identity, err := domain.NewIdentity(email, displayName, "$2a$04$placeholderhash")
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), identity))
	return identity
}

func testIdentityLifecycle(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	created := MustCreateIdentity(t, s.Identities(), "Ana@Example.COM", "Ana")
	assert.Equal(t, "ana@example.com", created.Email)

	byEmail, err := s.Identities().GetByEmail(ctx, " ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "Ana", byEmail.DisplayName)
	assert.Equal(t, created.CredentialHash, byEmail.CredentialHash)
	assert.WithinDuration(t, created.CreatedAt, byEmail.CreatedAt, time.Millisecond)

	byID, err := s.Identities().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, byEmail.Email, byID.Email)

	_, err = s.Identities().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrIdentityNotFound)

	_, err = s.Identities().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrIdentityNotFound)
}

func testDuplicateEmail(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	ctx := context.Background()

	original := MustCreateIdentity(t, s.Identities(), "a@x.com", "Ana")

	again, err := domain.NewIdentity("A@X.com", "Impostor", "$2a$04$otherhash")
	require.NoError(t, err)
	err = s.Identities().Create(ctx, again)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	stored, err := s.Identities().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, original.ID, stored.ID)
	assert.Equal(t, "Ana", stored.DisplayName)
	assert.Equal(t, original.CredentialHash, stored.CredentialHash)

	_, err = s.Identities().GetByID(ctx, again.ID)
	assert.ErrorIs(t, err, store.ErrIdentityNotFound)
}

func testConcurrentRegistration(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	const racers = 8

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			identity, err := domain.NewIdentity("race@x.com", fmt.Sprintf("Racer %d", i), "$2a$04$placeholderhash")
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = s.Identities().Create(context.Background(), identity)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, store.ErrEmailExists)
	}
	assert.Equal(t, 1, succeeded)
}

func testProgressOrder(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	ctx := context.Background()
	identity := MustCreateIdentity(t, s.Identities(), "order@x.com", "Ordem")

	entries, err := s.Progress().List(ctx, identity.ID)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	want := []struct{ level, score int }{{1, 50}, {2, -5}, {3, 80}}
	for _, w := range want {
		entry, err := domain.NewProgressEntry(identity.ID, w.level, w.score)
		require.NoError(t, err)
		require.NoError(t, s.Progress().Append(ctx, entry))
	}

	entries, err = s.Progress().List(ctx, identity.ID)
	require.NoError(t, err)
	require.Len(t, entries, len(want))
	for i, w := range want {
		assert.Equal(t, w.level, entries[i].Level)
		assert.Equal(t, w.score, entries[i].Score)
		assert.Equal(t, identity.ID, entries[i].IdentityID)
	}
}

func testConcurrentAppends(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	ctx := context.Background()
	identity := MustCreateIdentity(t, s.Identities(), "busy@x.com", "Busy")

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			entry, err := domain.NewProgressEntry(identity.ID, 1, score)
			if assert.NoError(t, err) {
				assert.NoError(t, s.Progress().Append(ctx, entry))
			}
		}(i)
	}
	wg.Wait()

	entries, err := s.Progress().List(ctx, identity.ID)
	require.NoError(t, err)
	require.Len(t, entries, writers)

	seen := make(map[int]bool, writers)
	for _, e := range entries {
		seen[e.Score] = true
	}
	assert.Len(t, seen, writers)
}

func testAppendUnknownIdentity(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)

	entry, err := domain.NewProgressEntry(uuid.New(), 1, 10)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Progress().Append(context.Background(), entry), store.ErrInvalidEntity)
}

func testRanking(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	ctx := context.Background()

	scores := map[string][]int{
		"Bia":   {100, 200},
		"Ana":   {90, 40},
		"Caio":  {130},
		"Davi":  {5},
		"Quiet": nil,
	}
	for name, list := range scores {
		identity := MustCreateIdentity(t, s.Identities(), name+"@x.com", name)
		for _, score := range list {
			entry, err := domain.NewProgressEntry(identity.ID, 1, score)
			require.NoError(t, err)
			require.NoError(t, s.Progress().Append(ctx, entry))
		}
	}

	ranking, err := s.Progress().Ranking(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.RankingEntry{
		{DisplayName: "Bia", TotalScore: 300, Entries: 2},
		{DisplayName: "Ana", TotalScore: 130, Entries: 2},
		{DisplayName: "Caio", TotalScore: 130, Entries: 1},
		{DisplayName: "Davi", TotalScore: 5, Entries: 1},
	}, ranking)

	top, err := s.Progress().Ranking(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Bia", top[0].DisplayName)
}

// testLargeScores checks that values past 32 bits round-trip and that
// ranking totals saturate at the int range on every backend.
func testLargeScores(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	ctx := context.Background()

	appendAll := func(identity *domain.Identity, level int, scores ...int) {
		t.Helper()
		for _, score := range scores {
			entry, err := domain.NewProgressEntry(identity.ID, level, score)
			require.NoError(t, err)
			require.NoError(t, s.Progress().Append(ctx, entry))
		}
	}

	big := MustCreateIdentity(t, s.Identities(), "big@x.com", "Big")
	appendAll(big, 1<<33, 1<<40, -(1 << 40))

	entries, err := s.Progress().List(ctx, big.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1<<33, entries[0].Level)
	assert.Equal(t, 1<<40, entries[0].Score)
	assert.Equal(t, -(1 << 40), entries[1].Score)

	appendAll(MustCreateIdentity(t, s.Identities(), "max@x.com", "Max"), 1, math.MaxInt, 1, -1)
	appendAll(MustCreateIdentity(t, s.Identities(), "over@x.com", "Over"), 1, math.MaxInt, math.MaxInt)
	appendAll(MustCreateIdentity(t, s.Identities(), "under@x.com", "Under"), 1, math.MinInt, -1)

	ranking, err := s.Progress().Ranking(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.RankingEntry{
		{DisplayName: "Max", TotalScore: math.MaxInt, Entries: 3},
		{DisplayName: "Over", TotalScore: math.MaxInt, Entries: 2},
		{DisplayName: "Big", TotalScore: 0, Entries: 2},
		{DisplayName: "Under", TotalScore: math.MinInt, Entries: 2},
	}, ranking)
}

func testActivities(t *testing.T, s store.Store) {
	closeOnCleanup(t, s)
	ctx := context.Background()

	seed := []domain.Activity{
		{Kind: domain.ActivityLetter, Content: "A", Level: 1},
		{Kind: domain.ActivityLetter, Content: "E", Level: 1},
		{Kind: domain.ActivitySyllable, Content: "BA", Level: 2, AudioURL: "/audio/ba.mp3"},
	}

	n, err := s.Activities().Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Activities().Seed(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, n)

	levelOne, err := s.Activities().ListByLevel(ctx, 1)
	require.NoError(t, err)
	require.Len(t, levelOne, 2)
	assert.Equal(t, "A", levelOne[0].Content)
	assert.Equal(t, "E", levelOne[1].Content)
	assert.Less(t, levelOne[0].ID, levelOne[1].ID)

	levelTwo, err := s.Activities().ListByLevel(ctx, 2)
	require.NoError(t, err)
	require.Len(t, levelTwo, 1)
	assert.Equal(t, domain.ActivitySyllable, levelTwo[0].Kind)
	assert.Equal(t, "/audio/ba.mp3", levelTwo[0].AudioURL)

	none, err := s.Activities().ListByLevel(ctx, 9)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testClosed(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), store.ErrUnavailable)

	_, err := s.Identities().GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, store.ErrUnavailable)

	_, err = s.Progress().List(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
