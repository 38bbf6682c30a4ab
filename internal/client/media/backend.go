// Package media holds the client-side state of the trip media library:
// the directory model, multi-select, sharing and the realtime sync that
// keeps the model aligned with the server.
package media

import (
	"context"
	"io"

	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/server/models"
)

// ShareLink is a minted public share.
type ShareLink struct {
	Token     string
	ViewerURL string
}

// Backend is the remote gateway the client talks to. The REST binding
// implements it against the server API; tests substitute fakes.
type Backend interface {
	// Snapshot returns the full directory state of the signed-in user.
	Snapshot(ctx context.Context) ([]*models.Folder, []*models.File, error)

	CreateFolder(ctx context.Context, name string, parentID *string) (*models.Folder, error)
	DeleteFolder(ctx context.Context, id string) error

	Upload(ctx context.Context, folderID *string, name string, size int64, r io.Reader) (*models.File, error)
	RenameFile(ctx context.Context, id, newName string) (*models.File, error)
	DeleteFile(ctx context.Context, id string) error

	CreateShare(ctx context.Context, folderIDs, fileIDs []string) (*ShareLink, error)

	// SubscribeFeed opens the change feed. The channel closes when the
	// connection drops or ctx is cancelled.
	SubscribeFeed(ctx context.Context) (<-chan feed.Event, error)
}
