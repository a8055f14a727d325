package domain

import "time"

// BearerToken is a signed, time-bounded assertion of identity. It is never persisted.
type BearerToken struct {
	Value     string    `json:"token"`
	Subject   string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
