// Package refreshtokens persists the refresh_tokens table.
package refreshtokens

import (
	"context"

	"github.com/wayplan/wayplan/internal/server/models"
)

type Repository interface {
	// Add stores the token.
	Add(ctx context.Context, token *models.RefreshToken) error
	// Get returns the stored token, or common.ErrNotFound.
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	// Delete removes the token; deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
