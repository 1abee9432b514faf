// Package repomanager vends repository implementations bound to a database
// handle and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/lockzilla/lockzilla/internal/dbx"
	"github.com/lockzilla/lockzilla/internal/server/repositories/secrets"
	"github.com/lockzilla/lockzilla/internal/server/repositories/sessions"
	"github.com/lockzilla/lockzilla/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Secrets(db dbx.DBTX) secrets.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
