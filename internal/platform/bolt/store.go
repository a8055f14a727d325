package bolt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/alfa-api/internal/store"
	"go.etcd.io/bbolt"
)

var (
	bucketIdentities   = []byte("identities")    // normalized email -> identityRecord
	bucketIdentityIDs  = []byte("identity_ids")  // identity id -> normalized email
	bucketProgress     = []byte("progress")      // identity id -> sub-bucket of seq -> progressRecord
	bucketActivities   = []byte("activities")    // seq -> activityRecord
	bucketActivityKeys = []byte("activity_keys") // level|kind|content -> seq
)

const openTimeout = time.Second

// Store is the bbolt-backed store.Store.
type Store struct {
	db         *bbolt.DB
	logger     *slog.Logger
	identities *IdentityStore
	progress   *ProgressStore
	activities *ActivityStore
}

var _ store.Store = (*Store)(nil)

// Open opens or creates the database file at path and ensures all buckets exist.
// A second process holding the file makes Open fail after a short timeout.
func Open(path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt database: %w", mapError(err))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{
			bucketIdentities, bucketIdentityIDs, bucketProgress, bucketActivities, bucketActivityKeys,
		} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	s := &Store{db: db, logger: log.With(slog.String("component", "bolt_store"))}
	s.identities = &IdentityStore{db: db, logger: log.With(slog.String("component", "identity_store"))}
	s.progress = &ProgressStore{db: db, logger: log.With(slog.String("component", "progress_store"))}
	s.activities = &ActivityStore{db: db, logger: log.With(slog.String("component", "activity_store"))}

	s.logger.Info("bolt database opened", slog.String("path", path))
	return s, nil
}

// Identities implements store.Store.
func (s *Store) Identities() store.IdentityStore { return s.identities }

// Progress implements store.Store.
func (s *Store) Progress() store.ProgressStore { return s.progress }

// Activities implements store.Store.
func (s *Store) Activities() store.ActivityStore { return s.activities }

// Ping implements store.Store with a read-only transaction.
func (s *Store) Ping(ctx context.Context) error {
	return view(ctx, s.db, func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketIdentities) == nil {
			return fmt.Errorf("%w: identities bucket missing", store.ErrUnavailable)
		}
		return nil
	})
}

// Close implements store.Store.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close bolt database: %w", err)
	}
	return nil
}

// view and update refuse to start a transaction for a context that is already done.
func view(ctx context.Context, db *bbolt.DB, fn func(*bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return mapError(err)
	}
	return mapError(db.View(fn))
}

func update(ctx context.Context, db *bbolt.DB, fn func(*bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return mapError(err)
	}
	return mapError(db.Update(fn))
}
