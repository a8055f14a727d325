package domain

import (
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ProgressEntry is one immutable record of activity at a given level.
type ProgressEntry struct {
	ID         uuid.UUID `json:"id"`
	IdentityID uuid.UUID `json:"-"`
	Level      int       `json:"level"`
	Score      int       `json:"score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewProgressEntry creates an entry stamped with the current server time.
// The score has no upper bound here; only the level is checked.
func NewProgressEntry(identityID uuid.UUID, level, score int) (*ProgressEntry, error) {
	entry := &ProgressEntry{
		ID:         uuid.New(),
		IdentityID: identityID,
		Level:      level,
		Score:      score,
		RecordedAt: time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks the entry's invariants.
func (e *ProgressEntry) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty")
	}
	if e.IdentityID == uuid.Nil {
		return NewValidationError("identity_id", "cannot be empty")
	}
	return ValidateLevel(e.Level)
}

// ValidateLevel reports whether level is a positive integer.
func ValidateLevel(level int) error {
	if level <= 0 {
		return NewValidationError("level", "must be a positive integer")
	}
	return nil
}

// RankingEntry aggregates one identity's progress for the leaderboard.
type RankingEntry struct {
	DisplayName string `json:"display_name"`
	TotalScore  int    `json:"total_score"`
	Entries     int    `json:"entries"`
}

var (
	maxTotal = big.NewInt(math.MaxInt)
	minTotal = big.NewInt(math.MinInt)
)

// ScoreSum adds scores exactly. Total clamps the sum to the int range, so a
// ranking total saturates instead of wrapping around.
type ScoreSum struct {
	n big.Int
}

// Add adds score to the sum.
func (s *ScoreSum) Add(score int) {
	s.n.Add(&s.n, big.NewInt(int64(score)))
}

// Total returns the sum clamped to [math.MinInt, math.MaxInt].
func (s *ScoreSum) Total() int {
	switch {
	case s.n.Cmp(maxTotal) > 0:
		return math.MaxInt
	case s.n.Cmp(minTotal) < 0:
		return math.MinInt
	}
	return int(s.n.Int64())
}
