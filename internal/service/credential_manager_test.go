package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/mocks"
	"github.com/phrazzld/alfa-api/internal/platform/memory"
	"github.com/phrazzld/alfa-api/internal/service"
	"github.com/phrazzld/alfa-api/internal/service/auth"
	"github.com/phrazzld/alfa-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "credential-manager-test-secret-0123456789"

// clock is a settable time source shared by a test and its JWT service.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	store       *memory.Store
	clock       *clock
	credentials service.CredentialManager
	ledger      service.ProgressLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := memory.New(nil)
	t.Cleanup(func() { _ = st.Close() })

	clk := &clock{now: time.Now()}
	tokens := auth.NewTestJWTService(testSecret, time.Hour, clk.Now)

	credentials, err := service.NewCredentialManager(st.Identities(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil)
	require.NoError(t, err)

	return &fixture{
		store:       st,
		clock:       clk,
		credentials: credentials,
		ledger:      service.NewProgressLedger(credentials, st.Progress(), nil),
	}
}

func TestCredentialManagerScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana, err := f.credentials.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", ana.DisplayName)
	assert.Equal(t, "a@x.com", ana.Email)
	assert.NotEqual(t, "pw1", ana.CredentialHash)

	token, err := f.credentials.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.Equal(t, "a@x.com", token.Subject)
	assert.Equal(t, time.Hour, token.ExpiresAt.Sub(token.IssuedAt))

	verified, err := f.credentials.Verify(ctx, token.Value)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, verified.ID)

	before := time.Now().UTC()
	entry, err := f.ledger.Append(ctx, token.Value, 3, 80)
	require.NoError(t, err)
	assert.False(t, entry.RecordedAt.Before(before.Truncate(time.Microsecond)))

	entries, err := f.ledger.List(ctx, token.Value)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Level)
	assert.Equal(t, 80, entries[0].Score)

	_, err = f.credentials.Register(ctx, "A@X.com", "other", "Impostor")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = f.credentials.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	f.clock.Set(token.ExpiresAt)
	_, err = f.credentials.Verify(ctx, token.Value)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCredentialManagerRegisterValidation(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		password    string
		displayName string
		field       string
	}{
		{name: "empty email", email: "", password: "pw", displayName: "Ana", field: "email"},
		{name: "malformed email", email: "not-an-email", password: "pw", displayName: "Ana", field: "email"},
		{name: "empty password", email: "a@x.com", password: "", displayName: "Ana", field: "password"},
		{name: "blank display name", email: "a@x.com", password: "pw", displayName: "   ", field: "display_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.credentials.Register(context.Background(), tt.email, tt.password, tt.displayName)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var validationErr *domain.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestCredentialManagerRegisterPasswordTooLong(t *testing.T) {
	f := newFixture(t)

	_, err := f.credentials.Register(context.Background(), "a@x.com", strings.Repeat("p", auth.MaxPasswordBytes+1), "Ana")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, lookupErr := f.store.Identities().GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, lookupErr, store.ErrNotFound)
}

func TestCredentialManagerDuplicateLeavesRecordUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	original, err := f.credentials.Register(ctx, "Ana@X.com", "pw1", "Ana")
	require.NoError(t, err)

	for _, email := range []string{"ana@x.com", "ANA@X.COM", "  ana@x.com  "} {
		_, err := f.credentials.Register(ctx, email, "pw2", "Other")
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail, email)
		assert.Equal(t, domain.KindDuplicateEmail, domain.KindOf(err))
	}

	stored, err := f.store.Identities().GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, original.CredentialHash, stored.CredentialHash)
	assert.Equal(t, "Ana", stored.DisplayName)

	_, err = f.credentials.Authenticate(ctx, "ana@x.com", "pw1")
	assert.NoError(t, err)
}

func TestCredentialManagerConcurrentRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const racers = 6
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.credentials.Register(ctx, "race@x.com", "pw", "Racer")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, succeeded)
}

func TestCredentialManagerAuthenticateFailuresAreUniform(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	_, unknownErr := f.credentials.Authenticate(ctx, "nobody@x.com", "pw1")
	_, wrongErr := f.credentials.Authenticate(ctx, "a@x.com", "pw2")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, domain.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestCredentialManagerAuthenticateUnknownEmailStillCompares(t *testing.T) {
	identities := mocks.NewMockIdentityStore()
	hasher := &mocks.MockPasswordHasher{}
	credentials, err := service.NewCredentialManager(identities, hasher, &mocks.MockJWTService{}, nil)
	require.NoError(t, err)

	_, err = credentials.Authenticate(context.Background(), "nobody@x.com", "pw")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, int32(1), hasher.CompareCalls.Load())
}

func TestCredentialManagerAuthenticateIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.credentials.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)

	token, err := f.credentials.Authenticate(ctx, " A@X.COM ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", token.Subject)
}

func TestCredentialManagerVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana, err := f.credentials.Register(ctx, "a@x.com", "pw1", "Ana")
	require.NoError(t, err)
	token, err := f.credentials.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	t.Run("valid just before expiry", func(t *testing.T) {
		f.clock.Set(token.ExpiresAt.Add(-time.Second))
		identity, err := f.credentials.Verify(ctx, token.Value)
		require.NoError(t, err)
		assert.Equal(t, ana.ID, identity.ID)
	})

	t.Run("invalid at expiry", func(t *testing.T) {
		f.clock.Set(token.ExpiresAt)
		_, err := f.credentials.Verify(ctx, token.Value)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("invalid after expiry", func(t *testing.T) {
		f.clock.Set(token.ExpiresAt.Add(time.Minute))
		_, err := f.credentials.Verify(ctx, token.Value)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		f.clock.Set(token.IssuedAt)
		for _, raw := range []string{"", "garbage", token.Value + "x"} {
			_, err := f.credentials.Verify(ctx, raw)
			assert.ErrorIs(t, err, domain.ErrInvalidToken, raw)
			assert.Equal(t, domain.KindInvalidToken, domain.KindOf(err))
		}
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := auth.NewTestJWTService("a-completely-different-secret-value!!", time.Hour, f.clock.Now)
		forged, err := other.GenerateToken(ctx, "a@x.com")
		require.NoError(t, err)

		_, err = f.credentials.Verify(ctx, forged.Value)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})
}

func TestCredentialManagerVerifyOrphanedSubject(t *testing.T) {
	identities := mocks.NewMockIdentityStore()
	credentials, err := service.NewCredentialManager(identities, &mocks.MockPasswordHasher{}, &mocks.MockJWTService{}, nil)
	require.NoError(t, err)

	_, err = credentials.Verify(context.Background(), "token:ghost@x.com")

	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestCredentialManagerStoreUnavailable(t *testing.T) {
	identities := mocks.NewMockIdentityStore()
	identities.CreateFn = func(context.Context, *domain.Identity) error { return store.ErrUnavailable }
	identities.GetByEmailFn = func(context.Context, string) (*domain.Identity, error) { return nil, store.ErrUnavailable }

	credentials, err := service.NewCredentialManager(identities, &mocks.MockPasswordHasher{}, &mocks.MockJWTService{}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = credentials.Register(ctx, "a@x.com", "pw", "Ana")
	assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))

	_, err = credentials.Authenticate(ctx, "a@x.com", "pw")
	assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))

	_, err = credentials.Verify(ctx, "token:a@x.com")
	assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))
}

func TestCredentialManagerHashesBeforeStoring(t *testing.T) {
	identities := mocks.NewMockIdentityStore()
	hasher := &mocks.MockPasswordHasher{}
	var hashCallsAtCreate int32
	identities.CreateFn = func(_ context.Context, identity *domain.Identity) error {
		hashCallsAtCreate = hasher.HashCalls.Load()
		assert.Equal(t, "hashed:pw", identity.CredentialHash)
		return nil
	}

	credentials, err := service.NewCredentialManager(identities, hasher, &mocks.MockJWTService{}, nil)
	require.NoError(t, err)

	_, err = credentials.Register(context.Background(), "a@x.com", "pw", "Ana")
	require.NoError(t, err)

	// One hash for the dummy credential at construction, one for the registration.
	assert.Equal(t, int32(2), hashCallsAtCreate)
}

func TestNewCredentialManagerHashFailure(t *testing.T) {
	hasher := &mocks.MockPasswordHasher{
		HashFn: func(string) (string, error) { return "", errors.New("entropy exhausted") },
	}

	credentials, err := service.NewCredentialManager(mocks.NewMockIdentityStore(), hasher, &mocks.MockJWTService{}, nil)

	require.Error(t, err)
	assert.Nil(t, credentials)
}
