// Package files persists the media_files table.
package files

import (
	"context"

	"github.com/wayplan/wayplan/internal/server/models"
)

type Repository interface {
	// Create inserts the file row. The caller assigns the id and must have
	// written the blob under StorageKey beforehand.
	Create(ctx context.Context, file *models.File) error
	// GetByID returns the file, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.File, error)
	// ListByOwner returns all files of the user in creation order.
	ListByOwner(ctx context.Context, userID string) ([]*models.File, error)
	// CountByFolder returns the number of files directly inside folderID.
	CountByFolder(ctx context.Context, folderID string) (int, error)
	// Rename updates name and storage key of the row. The blob must already
	// have been moved to the new key.
	Rename(ctx context.Context, id, userID, newName, newStorageKey string) error
	// Delete removes the file row. Returns common.ErrNotFound when no row
	// was affected.
	Delete(ctx context.Context, id, userID string) error
	// TagShare writes the share token onto all listed file rows owned by
	// userID, returning the number of rows tagged.
	TagShare(ctx context.Context, token, userID string, ids []string) (int, error)
	// ListByShareToken returns all files tagged with the token, regardless
	// of owner. Used by the unauthenticated share viewer.
	ListByShareToken(ctx context.Context, token string) ([]*models.File, error)
}
