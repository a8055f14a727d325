package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/alfa-api/internal/store"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Store is the PostgreSQL-backed store.Store.
type Store struct {
	db         *sql.DB
	identities *PostgresIdentityStore
	progress   *PostgresProgressStore
	activities *PostgresActivityStore
}

var _ store.Store = (*Store)(nil)

// Open connects to the database at url, configures the pool, and verifies
// the connection with a ping.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", MapError(err))
	}

	return New(db, logger), nil
}

// New wraps an existing connection pool. The Store takes ownership of db.
func New(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:         db,
		identities: NewPostgresIdentityStore(db, logger),
		progress:   NewPostgresProgressStore(db, logger),
		activities: NewPostgresActivityStore(db, logger),
	}
}

// DB exposes the pool for migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Identities implements store.Store.
func (s *Store) Identities() store.IdentityStore { return s.identities }

// Progress implements store.Store.
func (s *Store) Progress() store.ProgressStore { return s.progress }

// Activities implements store.Store.
func (s *Store) Activities() store.ActivityStore { return s.activities }

// Ping implements store.Store.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}
