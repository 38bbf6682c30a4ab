// Package users persists the users table.
package users

import (
	"context"

	"github.com/wayplan/wayplan/internal/server/models"
)

type Repository interface {
	// Create inserts the user and returns it with the assigned id.
	// Returns common.ErrLoginAlreadyExists on a username collision.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByLogin returns the user with the given username, or
	// common.ErrNotFound.
	GetByLogin(ctx context.Context, username string) (*models.User, error)
	// GetByID returns the user with the given id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
