package models

import "time"

// RefreshToken is an opaque, single-use token exchanged for a fresh
// access/refresh pair.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
