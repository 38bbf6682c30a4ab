// Package expenses persists the budgets and expenses tables.
package expenses

import (
	"context"

	"github.com/wayplan/wayplan/internal/server/models"
)

type Repository interface {
	// ListBudgets returns the user's budgets in creation order.
	ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error)
	// CreateBudget inserts one budget row.
	CreateBudget(ctx context.Context, budget *models.Budget) error
	// ListExpenses returns the user's expenses in creation order.
	ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error)
	// CreateExpense inserts one expense row.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// DeleteExpense removes an expense, common.ErrNotFound when absent.
	DeleteExpense(ctx context.Context, id, userID string) error
}
