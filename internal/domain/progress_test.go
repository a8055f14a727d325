package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewProgressEntry(t *testing.T) {
	identityID := uuid.New()
	before := time.Now().UTC()

	entry, err := NewProgressEntry(identityID, 3, 80)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entry.IdentityID != identityID {
		t.Errorf("Expected identity %s, got %s", identityID, entry.IdentityID)
	}
	if entry.Level != 3 || entry.Score != 80 {
		t.Errorf("Expected level 3 score 80, got level %d score %d", entry.Level, entry.Score)
	}
	if entry.RecordedAt.Before(before) {
		t.Errorf("Expected RecordedAt no earlier than %v, got %v", before, entry.RecordedAt)
	}
}

func TestNewProgressEntryScoreUnbounded(t *testing.T) {
	for _, score := range []int{-5, 0, 1 << 30} {
		if _, err := NewProgressEntry(uuid.New(), 1, score); err != nil {
			t.Errorf("score %d: expected no error, got %v", score, err)
		}
	}
}

func TestNewProgressEntryInvalidLevel(t *testing.T) {
	for _, level := range []int{0, -1} {
		_, err := NewProgressEntry(uuid.New(), level, 10)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("level %d: expected ErrInvalidInput, got %v", level, err)
		}
	}

	_, err := NewProgressEntry(uuid.Nil, 1, 10)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil identity: expected ErrInvalidInput, got %v", err)
	}
}

func TestActivityValidate(t *testing.T) {
	valid := Activity{Kind: ActivityWord, Content: "BOLA", Level: 3}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid activity, got %v", err)
	}

	invalid := []Activity{
		{Kind: "picture", Content: "A", Level: 1},
		{Kind: ActivityLetter, Content: "", Level: 1},
		{Kind: ActivityLetter, Content: "A", Level: 0},
	}
	for _, a := range invalid {
		if err := a.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", a, err)
		}
	}
}

func TestScoreSum(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   int
	}{
		{name: "empty", scores: nil, want: 0},
		{name: "mixed", scores: []int{90, 40, -5}, want: 125},
		{name: "past 32 bits", scores: []int{1 << 40, 1 << 40}, want: 1 << 41},
		{name: "overflow then back in range", scores: []int{math.MaxInt, 1, -1}, want: math.MaxInt},
		{name: "saturates high", scores: []int{math.MaxInt, math.MaxInt}, want: math.MaxInt},
		{name: "saturates low", scores: []int{math.MinInt, -1}, want: math.MinInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sum ScoreSum
			for _, score := range tt.scores {
				sum.Add(score)
			}
			if got := sum.Total(); got != tt.want {
				t.Errorf("Expected total %d, got %d", tt.want, got)
			}
		})
	}
}
