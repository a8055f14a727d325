package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
	"go.etcd.io/bbolt"
)

// ProgressStore implements store.ProgressStore. Each identity owns a nested
// bucket whose keys are big-endian sequence numbers, so cursor order is
// append order.
type ProgressStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// Append implements store.ProgressStore.Append.
func (s *ProgressStore) Append(ctx context.Context, entry *domain.ProgressEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		return err
	}

	data, err := cbor.Marshal(progressRecord{
		ID:         entry.ID[:],
		Level:      entry.Level,
		Score:      entry.Score,
		RecordedAt: entry.RecordedAt.UnixNano(),
	})
	if err != nil {
		return store.NewStoreError("progress", "append", "encode record", err)
	}

	err = update(ctx, s.db, func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketIdentityIDs).Get(entry.IdentityID[:]) == nil {
			return fmt.Errorf("%w: identity %s not found", store.ErrInvalidEntity, entry.IdentityID)
		}
		b, err := tx.Bucket(bucketProgress).CreateBucketIfNotExists(entry.IdentityID[:])
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
	if err != nil {
		log.Error("failed to append progress",
			slog.String("error", err.Error()),
			slog.String("identity_id", entry.IdentityID.String()))
		return err
	}

	log.Debug("progress appended",
		slog.String("entry_id", entry.ID.String()),
		slog.String("identity_id", entry.IdentityID.String()),
		slog.Int("level", entry.Level))
	return nil
}

// List implements store.ProgressStore.List.
func (s *ProgressStore) List(ctx context.Context, identityID uuid.UUID) ([]domain.ProgressEntry, error) {
	entries := make([]domain.ProgressEntry, 0)
	err := view(ctx, s.db, func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketProgress).Bucket(identityID[:])
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var rec progressRecord
			if err := cbor.Unmarshal(v, &rec); err != nil {
				return store.NewStoreError("progress", "list", "decode record", err)
			}
			entry, err := rec.toDomain(identityID)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Ranking implements store.ProgressStore.Ranking by scanning every log.
func (s *ProgressStore) Ranking(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	ranking := make([]domain.RankingEntry, 0)
	err := view(ctx, s.db, func(tx *bbolt.Tx) error {
		ids := tx.Bucket(bucketIdentityIDs)
		return tx.Bucket(bucketProgress).ForEachBucket(func(identityID []byte) error {
			email := ids.Get(identityID)
			if email == nil {
				return nil
			}
			identity, err := getIdentity(tx, email)
			if err != nil {
				return err
			}

			row := domain.RankingEntry{DisplayName: identity.DisplayName}
			var sum domain.ScoreSum
			err = tx.Bucket(bucketProgress).Bucket(identityID).ForEach(func(_, v []byte) error {
				var rec progressRecord
				if err := cbor.Unmarshal(v, &rec); err != nil {
					return store.NewStoreError("progress", "ranking", "decode record", err)
				}
				sum.Add(rec.Score)
				row.Entries++
				return nil
			})
			if err != nil {
				return err
			}
			row.TotalScore = sum.Total()
			if row.Entries > 0 {
				ranking = append(ranking, row)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(ranking, func(i, j int) bool {
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

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
