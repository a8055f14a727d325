package bolt

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
)

// Times are stored as Unix nanoseconds; the CBOR default time encoding
// truncates to whole seconds.

type identityRecord struct {
	ID             []byte `cbor:"1,keyasint"`
	Email          string `cbor:"2,keyasint"`
	DisplayName    string `cbor:"3,keyasint"`
	CredentialHash string `cbor:"4,keyasint"`
	CreatedAt      int64  `cbor:"5,keyasint"`
}

func newIdentityRecord(i *domain.Identity) identityRecord {
	return identityRecord{
		ID:             i.ID[:],
		Email:          i.Email,
		DisplayName:    i.DisplayName,
		CredentialHash: i.CredentialHash,
		CreatedAt:      i.CreatedAt.UnixNano(),
	}
}

func (r identityRecord) toDomain() (*domain.Identity, error) {
	id, err := uuid.FromBytes(r.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{
		ID:             id,
		Email:          r.Email,
		DisplayName:    r.DisplayName,
		CredentialHash: r.CredentialHash,
		CreatedAt:      time.Unix(0, r.CreatedAt).UTC(),
	}, nil
}

type progressRecord struct {
	ID         []byte `cbor:"1,keyasint"`
	Level      int    `cbor:"2,keyasint"`
	Score      int    `cbor:"3,keyasint"`
	RecordedAt int64  `cbor:"4,keyasint"`
}

func (r progressRecord) toDomain(identityID uuid.UUID) (domain.ProgressEntry, error) {
	id, err := uuid.FromBytes(r.ID)
	if err != nil {
		return domain.ProgressEntry{}, err
	}
	return domain.ProgressEntry{
		ID:         id,
		IdentityID: identityID,
		Level:      r.Level,
		Score:      r.Score,
		RecordedAt: time.Unix(0, r.RecordedAt).UTC(),
	}, nil
}

type activityRecord struct {
	Kind     string `cbor:"1,keyasint"`
	Content  string `cbor:"2,keyasint"`
	Level    int    `cbor:"3,keyasint"`
	AudioURL string `cbor:"4,keyasint,omitempty"`
}
