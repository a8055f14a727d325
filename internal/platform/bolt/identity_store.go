package bolt

import (
	"context"
	"log/slog"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
	"go.etcd.io/bbolt"
)

// IdentityStore implements store.IdentityStore. Identities are keyed by
// normalized email; a second bucket indexes them by id.
type IdentityStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

var _ store.IdentityStore = (*IdentityStore)(nil)

// Create implements store.IdentityStore.Create. bbolt allows a single
// writer, so the existence check and the put cannot interleave with another
// registration.
func (s *IdentityStore) Create(ctx context.Context, identity *domain.Identity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	identity.Email = domain.NormalizeEmail(identity.Email)
	if err := identity.Validate(); err != nil {
		return err
	}

	data, err := cbor.Marshal(newIdentityRecord(identity))
	if err != nil {
		return store.NewStoreError("identity", "create", "encode record", err)
	}

	err = update(ctx, s.db, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketIdentities)
		key := []byte(identity.Email)
		if b.Get(key) != nil {
			return store.ErrEmailExists
		}
		if err := b.Put(key, data); err != nil {
			return err
		}
		return tx.Bucket(bucketIdentityIDs).Put(identity.ID[:], key)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("email already registered",
				slog.String("identity_id", identity.ID.String()))
			return err
		}
		log.Error("failed to create identity",
			slog.String("error", err.Error()),
			slog.String("identity_id", identity.ID.String()))
		return err
	}

	log.Info("identity created", slog.String("identity_id", identity.ID.String()))
	return nil
}

// GetByID implements store.IdentityStore.GetByID.
func (s *IdentityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Identity, error) {
	var identity *domain.Identity
	err := view(ctx, s.db, func(tx *bbolt.Tx) error {
		email := tx.Bucket(bucketIdentityIDs).Get(id[:])
		if email == nil {
			return store.ErrIdentityNotFound
		}
		var err error
		identity, err = getIdentity(tx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// GetByEmail implements store.IdentityStore.GetByEmail.
func (s *IdentityStore) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var identity *domain.Identity
	err := view(ctx, s.db, func(tx *bbolt.Tx) error {
		var err error
		identity, err = getIdentity(tx, []byte(domain.NormalizeEmail(email)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return identity, nil
}

func getIdentity(tx *bbolt.Tx, email []byte) (*domain.Identity, error) {
	data := tx.Bucket(bucketIdentities).Get(email)
	if data == nil {
		return nil, store.ErrIdentityNotFound
	}
	var rec identityRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, store.NewStoreError("identity", "get", "decode record", err)
	}
	return rec.toDomain()
}
