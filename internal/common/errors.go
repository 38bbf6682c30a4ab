// Package common defines shared constants and sentinel errors used across
// client and server layers of wayplan. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors, rejected before any storage call.
	ErrValidation     = errors.New("validation error")
	ErrFolderNotEmpty = errors.New("folder is not empty")

	// Blob-store errors. A failed blob operation always aborts the
	// corresponding metadata write.
	ErrBlobOperation = errors.New("blob operation failed")

	// ErrOrphanedRow marks a terminal inconsistency between object storage
	// and metadata: the blob and its row no longer agree, and no automatic
	// recovery is attempted. Distinct from retryable write failures.
	ErrOrphanedRow = errors.New("storage and metadata diverged")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrLoginAlreadyExists  = errors.New("login already exists")
)

// BatchItemError records one failed item of a bulk operation.
type BatchItemError struct {
	ID   string
	Name string
	Err  error
}

// PartialBatchError aggregates per-item failures of a bulk operation that
// does not abort early. The operation as a whole succeeded for
// Total-len(Failures) items.
type PartialBatchError struct {
	Total    int
	Failures []BatchItemError
}

func (e *PartialBatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d items failed", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "; %s: %v", f.Name, f.Err)
	}
	return b.String()
}

// AllFailed reports whether no item of the batch succeeded.
func (e *PartialBatchError) AllFailed() bool {
	return len(e.Failures) == e.Total
}

// ErrOrNil returns the error itself, or nil when no item failed. Callers
// build the value unconditionally and return ErrOrNil().
func (e *PartialBatchError) ErrOrNil() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e
}
