package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testIdentity(t *testing.T) *domain.Identity {
	t.Helper()
	identity, err := domain.NewIdentity("Ana@Example.com", "Ana", "$2a$04$hash")
	require.NoError(t, err)
	return identity
}

func TestIdentityStoreCreate(t *testing.T) {
	t.Run("inserts normalized identity", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresIdentityStore(db, nil)
		identity := testIdentity(t)

		mock.ExpectExec("INSERT INTO identities").
			WithArgs(identity.ID, "ana@example.com", "Ana", "$2a$04$hash", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), identity))
	})

	t.Run("unique violation becomes ErrEmailExists", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresIdentityStore(db, nil)

		mock.ExpectExec("INSERT INTO identities").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "identities_email_key"})

		err := s.Create(context.Background(), testIdentity(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})

	t.Run("connection failure becomes ErrUnavailable", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresIdentityStore(db, nil)

		mock.ExpectExec("INSERT INTO identities").
			WillReturnError(&pgconn.PgError{Code: "08006"})

		err := s.Create(context.Background(), testIdentity(t))
		assert.ErrorIs(t, err, store.ErrUnavailable)
		assert.Equal(t, domain.KindStoreUnavailable, domain.KindOf(err))
	})

	t.Run("invalid identity never reaches the database", func(t *testing.T) {
		db, _ := newMock(t)
		s := NewPostgresIdentityStore(db, nil)

		identity := testIdentity(t)
		identity.CredentialHash = ""

		err := s.Create(context.Background(), identity)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestIdentityStoreGet(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{"id", "email", "display_name", "credential_hash", "created_at"}

	t.Run("by email normalizes the lookup key", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresIdentityStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM identities WHERE email").
			WithArgs("ana@example.com").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id.String(), "ana@example.com", "Ana", "$2a$04$hash", created))

		got, err := s.GetByEmail(context.Background(), "  ANA@example.com ")
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "Ana", got.DisplayName)
		assert.Equal(t, created, got.CreatedAt)
	})

	t.Run("by id not found", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresIdentityStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM identities WHERE id").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		got, err := s.GetByID(context.Background(), id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, store.ErrIdentityNotFound)
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresIdentityStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM identities").
			WillReturnError(context.DeadlineExceeded)

		_, err := s.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrUnavailable)
	})
}
