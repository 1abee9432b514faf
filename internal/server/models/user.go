// Package models contains the persisted server-side domain types.
package models

import "time"

// User is a vault account. Identity fields are immutable after registration.
// PasswordHash holds an argon2id PHC string; plaintext passwords are never
// stored or logged.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}
