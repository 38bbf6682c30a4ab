package models

import "time"

// File describes metadata for an uploaded media object. The bytes themselves
// live in object storage under StorageKey; the row is only ever written after
// the blob write succeeded, and deleted only after the blob was removed.
type File struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// FolderID references the containing folder, nil at the root.
	FolderID *string `json:"folder_id,omitempty"`
	// StorageKey uniquely addresses the blob, derived from
	// owner/path-prefix/upload-millis_name to avoid collisions.
	StorageKey string `json:"storage_key"`
	// SizeBytes is the reported upload size, nil when unknown.
	SizeBytes *int64 `json:"size_bytes,omitempty"`
	// PublicShareID is the opaque share token tagged onto this file,
	// nil when the file is not shared.
	PublicShareID *string   `json:"public_share_id,omitempty"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
}
