package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/alfa-api/internal/domain"
)

// RegisterRequest defines the payload for the registration endpoint.
// There is no minimum password length; the credential manager rejects
// passwords longer than bcrypt accepts.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

// LoginRequest defines the payload for the JSON login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AppendProgressRequest defines the payload for recording progress.
type AppendProgressRequest struct {
	Level *int `json:"level" validate:"required"`
	Score *int `json:"score" validate:"required"`
}

// IdentityResponse is the public view of an identity.
type IdentityResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResponse is returned by the JSON login endpoint.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenResponse is returned by the form-encoded token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ProgressEntryResponse is one entry of an identity's progress log.
type ProgressEntryResponse struct {
	ID         uuid.UUID `json:"id"`
	Level      int       `json:"level"`
	Score      int       `json:"score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ProgressListResponse wraps an identity's full progress log.
type ProgressListResponse struct {
	Entries []ProgressEntryResponse `json:"entries"`
}

// RankingResponse wraps the leaderboard.
type RankingResponse struct {
	Ranking []domain.RankingEntry `json:"ranking"`
}

// ActivityListResponse is the activities of one level.
type ActivityListResponse struct {
	Level      int               `json:"level"`
	Total      int               `json:"total"`
	Activities []domain.Activity `json:"activities"`
}

// HealthResponse reports whether the store is reachable.
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

func identityToResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		CreatedAt:   identity.CreatedAt,
	}
}

func entryToResponse(entry domain.ProgressEntry) ProgressEntryResponse {
	return ProgressEntryResponse{
		ID:         entry.ID,
		Level:      entry.Level,
		Score:      entry.Score,
		RecordedAt: entry.RecordedAt,
	}
}
