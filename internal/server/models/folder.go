// Package models defines server-side data models persisted in the database.
package models

import "time"

// Folder is one node of the media directory tree. Root folders have a nil
// ParentID. The parent graph is acyclic by construction: folders are only
// created under an already-existing (or nil) parent and never moved.
type Folder struct {
	ID string `json:"id"`
	// Name is the display name, unique only in the eye of the beholder.
	Name string `json:"name"`
	// ParentID references the containing folder, nil at the root.
	ParentID *string `json:"parent_id,omitempty"`
	// PublicShareID is the opaque share token tagged onto this folder,
	// nil when the folder is not shared.
	PublicShareID *string `json:"public_share_id,omitempty"`
	// UserID is the owning user.
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
