package models

import "time"

// Budget is a named spending envelope for the trip.
type Budget struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Expense is a single spend, optionally attributed to a budget.
// PaidBy records which trip member fronted the money.
type Expense struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	BudgetID  *string   `json:"budget_id,omitempty"`
	PaidBy    *string   `json:"paid_by,omitempty"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
