package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: uniqueViolationCode}, wantIs: store.ErrDuplicate},
		{name: "foreign key violation", err: &pgconn.PgError{Code: foreignKeyViolationCode}, wantIs: store.ErrInvalidEntity},
		{name: "check violation", err: &pgconn.PgError{Code: checkViolationCode}, wantIs: store.ErrInvalidEntity},
		{name: "not null violation", err: &pgconn.PgError{Code: notNullViolationCode}, wantIs: store.ErrInvalidEntity},
		{name: "numeric out of range", err: &pgconn.PgError{Code: numericOutOfRangeCode}, wantIs: store.ErrOutOfRange},
		{name: "connection exception", err: &pgconn.PgError{Code: "08001"}, wantIs: store.ErrUnavailable},
		{name: "admin shutdown", err: &pgconn.PgError{Code: adminShutdownCode}, wantIs: store.ErrUnavailable},
		{name: "deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), wantIs: store.ErrUnavailable},
		{name: "bad conn", err: driver.ErrBadConn, wantIs: store.ErrUnavailable},
		{name: "network", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, wantIs: store.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.wantIs)
		})
	}

	t.Run("out of range is invalid input", func(t *testing.T) {
		mapped := MapError(&pgconn.PgError{Code: numericOutOfRangeCode, Message: "bigint out of range"})
		assert.Equal(t, domain.KindInvalidInput, domain.KindOf(mapped))
		assert.NotErrorIs(t, mapped, store.ErrInvalidEntity)
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped passes through", func(t *testing.T) {
		original := errors.New("syntax error")
		assert.Same(t, original, MapError(original))
	})
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsUnavailable(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUnavailable(errors.New("plain")))
	assert.True(t, IsUnavailable(sql.ErrConnDone))
}
