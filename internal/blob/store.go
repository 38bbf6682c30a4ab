// Package blob abstracts the object storage backing media uploads.
//
// Storage keys are opaque paths of the form
// <owner>/<folder-name>/<unix-millis>_<original-name>; the millisecond
// prefix keeps keys collision-free while leaving them human-traceable.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

var (
	ErrEmptyKey   = errors.New("key cannot be empty")
	ErrInvalidKey = errors.New("key contains invalid characters")
)

// Store is the object-storage contract consumed by the media service.
// A failed blob operation always aborts the corresponding metadata write.
type Store interface {
	// Put writes the object under key. size is advisory (-1 when unknown).
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	// Move renames an object. The old key is gone afterwards.
	Move(ctx context.Context, oldKey, newKey string) error
	// Delete removes the object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL returns the deterministic fetch URL for key. Requires the
	// underlying bucket to be public-readable.
	PublicURL(key string) string
}

// ValidateKey rejects keys that cannot address an object safely.
func ValidateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.ContainsRune(key, 0) {
		return ErrInvalidKey
	}
	return nil
}

// NewStorageKey derives a collision-resistant key for an upload:
// owner id, then the containing folder's name (empty at the root), then
// the upload timestamp in milliseconds joined to the original file name.
func NewStorageKey(userID, folderName, fileName string, now time.Time) string {
	prefix := ""
	if folderName != "" {
		prefix = folderName + "/"
	}
	return fmt.Sprintf("%s/%s%d_%s", userID, prefix, now.UnixMilli(), fileName)
}

// RenamedKey derives the target key for a rename: same path, new
// millisecond prefix, new base name.
func RenamedKey(oldKey, newName string, now time.Time) string {
	dir := ""
	if i := strings.LastIndex(oldKey, "/"); i >= 0 {
		dir = oldKey[:i+1]
	}
	return fmt.Sprintf("%s%d_%s", dir, now.UnixMilli(), newName)
}
