// Package secrets provides the repository for per-account secret entries.
//
// All operations are keyed by (owner id, service); service names are unique
// per owner, not globally.
package secrets

import (
	"context"

	"github.com/lockzilla/lockzilla/internal/server/models"
)

type Repository interface {
	// List returns all entries owned by ownerID.
	List(ctx context.Context, ownerID string) ([]models.Secret, error)

	// Search returns the owner's entries whose service name contains term,
	// case-insensitively.
	Search(ctx context.Context, ownerID string, term string) ([]models.Secret, error)

	// Put stores a secret, replacing any existing entry for the same
	// (owner, service) key. At most one row per key survives.
	Put(ctx context.Context, entry *models.Secret) error

	// Update overwrites an existing entry's secret. When the key does not
	// exist, it is a no-op: nothing is created and no error is returned.
	Update(ctx context.Context, entry *models.Secret) error

	// Delete removes the entry for the key. Absent keys are a no-op.
	Delete(ctx context.Context, ownerID string, service string) error
}
