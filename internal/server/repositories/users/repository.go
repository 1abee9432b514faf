// Package users provides the repository for vault accounts.
package users

import (
	"context"

	"github.com/lockzilla/lockzilla/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
