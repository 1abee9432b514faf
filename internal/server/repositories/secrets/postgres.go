package secrets

import (
	"context"
	"fmt"

	"github.com/lockzilla/lockzilla/internal/dbx"
	"github.com/lockzilla/lockzilla/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]models.Secret, error) {
	query :=
		`SELECT owner_id, service, secret FROM secrets
		 WHERE owner_id = $1
		 `
	return r.queryEntries(ctx, query, ownerID)
}

func (r *PostgresRepository) Search(ctx context.Context, ownerID string, term string) ([]models.Secret, error) {
	query :=
		`SELECT owner_id, service, secret FROM secrets
		 WHERE owner_id = $1 AND service ILIKE '%' || $2 || '%'
		 `
	return r.queryEntries(ctx, query, ownerID, term)
}

func (r *PostgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]models.Secret, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var entries []models.Secret
	for rows.Next() {
		var e models.Secret
		if err := rows.Scan(&e.OwnerID, &e.Service, &e.Secret); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entries, nil
}

// Put relies on the composite primary key: the ON CONFLICT clause makes
// concurrent writers on the same key converge to a single row with the
// last-committed value.
func (r *PostgresRepository) Put(ctx context.Context, entry *models.Secret) error {
	query :=
		`INSERT INTO secrets (owner_id, service, secret)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (owner_id, service) DO UPDATE SET secret = EXCLUDED.secret
		 `

	if _, err := r.db.ExecContext(ctx, query, entry.OwnerID, entry.Service, entry.Secret); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Update deliberately ignores the affected-row count: zero rows means the
// key does not exist and the call is a no-op, never an insert.
func (r *PostgresRepository) Update(ctx context.Context, entry *models.Secret) error {
	query :=
		`UPDATE secrets SET secret = $3
		 WHERE owner_id = $1 AND service = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, entry.OwnerID, entry.Service, entry.Secret); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID string, service string) error {
	query :=
		`DELETE FROM secrets
		 WHERE owner_id = $1 AND service = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, ownerID, service); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
