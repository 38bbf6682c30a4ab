// Package folders persists the media_folders table.
package folders

import (
	"context"

	"github.com/wayplan/wayplan/internal/server/models"
)

type Repository interface {
	// Create inserts the folder row. The caller assigns the id.
	Create(ctx context.Context, folder *models.Folder) error
	// GetByID returns the folder, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Folder, error)
	// ListByOwner returns all folders of the user in creation order.
	ListByOwner(ctx context.Context, userID string) ([]*models.Folder, error)
	// CountChildren returns the number of direct child folders of parentID.
	CountChildren(ctx context.Context, parentID string) (int, error)
	// Delete removes the folder row. Returns common.ErrNotFound when no
	// row was affected.
	Delete(ctx context.Context, id, userID string) error
	// TagShare writes the share token onto all listed folder rows owned
	// by userID, returning the number of rows tagged.
	TagShare(ctx context.Context, token, userID string, ids []string) (int, error)
	// ListByShareToken returns all folders tagged with the token,
	// regardless of owner. Used by the unauthenticated share viewer.
	ListByShareToken(ctx context.Context, token string) ([]*models.Folder, error)
}
