// Package sessions provides a PostgreSQL-backed repository for server-side
// sessions. Rows are keyed by a SHA-256 hash of the opaque session token, so
// a database leak does not yield usable tokens.
package sessions

import (
	"context"
	"time"

	"github.com/lockzilla/lockzilla/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	Find(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
