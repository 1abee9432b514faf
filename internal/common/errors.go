// Package common defines shared constants and sentinel errors used across
// the Lockzilla server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Account errors.
	ErrorDuplicateUsername = errors.New("username already exists")

	// ErrorInvalidCredentials is deliberately ambiguous: callers cannot tell
	// an unknown username from a wrong password.
	ErrorInvalidCredentials = errors.New("invalid username or password")

	// Session / identity errors.
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrorInvalidToken    = errors.New("invalid token")

	// Input validation.
	ErrorMissingParameter = errors.New("required parameter missing")

	// ErrorSecretExposed is returned only when the breach check is configured
	// as a hard block and the candidate secret is known-exposed.
	ErrorSecretExposed = errors.New("secret found in breach corpus")

	// Generic/internal flow control.
	ErrorInternal = errors.New("internal error")
)
