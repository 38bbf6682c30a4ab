// Package board persists the board_statuses and board_items tables.
package board

import (
	"context"

	"github.com/wayplan/wayplan/internal/server/models"
)

type Repository interface {
	// ListStatuses returns the user's columns ordered by position.
	ListStatuses(ctx context.Context, userID string) ([]*models.BoardStatus, error)
	// CreateStatus inserts one column row.
	CreateStatus(ctx context.Context, status *models.BoardStatus) error
	// ListItems returns the user's cards in creation order.
	ListItems(ctx context.Context, userID string) ([]*models.BoardItem, error)
	// CreateItem inserts one card row.
	CreateItem(ctx context.Context, item *models.BoardItem) error
	// UpdateItemStatus moves a card to another column (nil clears it).
	UpdateItemStatus(ctx context.Context, id, userID string, statusID *string) error
	// DeleteItem removes a card, common.ErrNotFound when absent.
	DeleteItem(ctx context.Context, id, userID string) error
}
