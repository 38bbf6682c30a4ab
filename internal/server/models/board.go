package models

import "time"

// BoardStatus is one column of the trip task board.
type BoardStatus struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
	UserID   string `json:"user_id"`
}

// BoardItem is one card on the board. StatusID is nil for items without
// a column; DueDate is nil for items without a deadline.
type BoardItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StatusID    *string    `json:"status_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	UserID      string     `json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}
