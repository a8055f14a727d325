package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/fxamacker/cbor/v2"
	"github.com/phrazzld/alfa-api/internal/domain"
	"github.com/phrazzld/alfa-api/internal/platform/logger"
	"github.com/phrazzld/alfa-api/internal/store"
	"go.etcd.io/bbolt"
)

// ActivityStore implements store.ActivityStore.
type ActivityStore struct {
	db     *bbolt.DB
	logger *slog.Logger
}

var _ store.ActivityStore = (*ActivityStore)(nil)

// Seed implements store.ActivityStore.Seed in a single transaction.
func (s *ActivityStore) Seed(ctx context.Context, activities []domain.Activity) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i := range activities {
		if err := activities[i].Validate(); err != nil {
			return 0, fmt.Errorf("seed activity %d: %w", i, err)
		}
	}

	inserted := 0
	err := update(ctx, s.db, func(tx *bbolt.Tx) error {
		inserted = 0
		records := tx.Bucket(bucketActivities)
		keys := tx.Bucket(bucketActivityKeys)
		for _, a := range activities {
			natural := activityKey(a)
			if keys.Get(natural) != nil {
				continue
			}
			data, err := cbor.Marshal(activityRecord{
				Kind:     string(a.Kind),
				Content:  a.Content,
				Level:    a.Level,
				AudioURL: a.AudioURL,
			})
			if err != nil {
				return store.NewStoreError("activity", "seed", "encode record", err)
			}
			seq, err := records.NextSequence()
			if err != nil {
				return err
			}
			if err := records.Put(seqKey(seq), data); err != nil {
				return err
			}
			if err := keys.Put(natural, seqKey(seq)); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		log.Error("failed to seed activities", slog.String("error", err.Error()))
		return 0, err
	}

	log.Info("activities seeded",
		slog.Int("offered", len(activities)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

// ListByLevel implements store.ActivityStore.ListByLevel.
func (s *ActivityStore) ListByLevel(ctx context.Context, level int) ([]domain.Activity, error) {
	activities := make([]domain.Activity, 0)
	err := view(ctx, s.db, func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketActivities).ForEach(func(k, v []byte) error {
			var rec activityRecord
			if err := cbor.Unmarshal(v, &rec); err != nil {
				return store.NewStoreError("activity", "list", "decode record", err)
			}
			if rec.Level != level {
				return nil
			}
			activities = append(activities, domain.Activity{
				ID:       int(binary.BigEndian.Uint64(k)),
				Kind:     domain.ActivityKind(rec.Kind),
				Content:  rec.Content,
				Level:    rec.Level,
				AudioURL: rec.AudioURL,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func activityKey(a domain.Activity) []byte {
	return []byte(fmt.Sprintf("%d|%s|%s", a.Level, a.Kind, a.Content))
}
