// Package feed carries change notifications from server writes to
// connected clients. Delivery is at-least-once per connection; no
// ordering is guaranteed across rows.
package feed

import (
	"fmt"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/server/models"
)

// Kind discriminates the event variant. Deleted events carry only the
// row id.
type Kind string

const (
	KindInserted Kind = "inserted"
	KindUpdated  Kind = "updated"
	KindDeleted  Kind = "deleted"
)

// Table names the row source of an event.
type Table string

const (
	TableFolders       Table = "media_folders"
	TableFiles         Table = "media_files"
	TableBoardStatuses Table = "board_statuses"
	TableBoardItems    Table = "board_items"
	TableBudgets       Table = "budgets"
	TableExpenses      Table = "expenses"
)

var knownTables = map[Table]struct{}{
	TableFolders:       {},
	TableFiles:         {},
	TableBoardStatuses: {},
	TableBoardItems:    {},
	TableBudgets:       {},
	TableExpenses:      {},
}

// Event is a tagged change notification. Exactly one of Folder, File or
// Payload is set for inserted/updated events depending on Table;
// deleted events set none of them.
type Event struct {
	Table Table  `json:"table"`
	Kind  Kind   `json:"kind"`
	ID    string `json:"id"`

	Folder *models.Folder `json:"folder,omitempty"`
	File   *models.File   `json:"file,omitempty"`
	// Payload carries board and expense rows.
	Payload any `json:"payload,omitempty"`

	// OwnerID scopes delivery. Not serialized; subscribers only ever
	// see their own rows.
	OwnerID string `json:"-"`
}

// Validate rejects malformed events at the boundary so a bad producer
// surfaces as an error, never as a panic downstream.
func (e Event) Validate() error {
	if _, ok := knownTables[e.Table]; !ok {
		return fmt.Errorf("%w: unknown feed table %q", common.ErrValidation, e.Table)
	}
	switch e.Kind {
	case KindInserted, KindUpdated, KindDeleted:
	default:
		return fmt.Errorf("%w: unknown feed kind %q", common.ErrValidation, e.Kind)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: feed event without row id", common.ErrValidation)
	}
	if e.OwnerID == "" {
		return fmt.Errorf("%w: feed event without owner", common.ErrValidation)
	}
	return nil
}

// Publisher is the write-side contract services publish through.
type Publisher interface {
	Publish(e Event)
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
