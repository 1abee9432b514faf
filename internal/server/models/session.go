package models

import "time"

// Session binds an opaque bearer token to an account. Only the SHA-256 hash
// of the token is stored; the token itself exists client-side only.
type Session struct {
	TokenHash string
	UserID    string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session has passed its expiry at instant now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
