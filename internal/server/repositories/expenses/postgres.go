package expenses

import (
	"context"
	"fmt"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/dbx"
	"github.com/wayplan/wayplan/internal/server/models"
)

// PostgresRepository implements budget/expense storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListBudgets(ctx context.Context, userID string) ([]*models.Budget, error) {
	query := `SELECT id, title, amount, user_id, created_at FROM budgets WHERE user_id=$1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select budgets: %w", err)
	}
	defer rows.Close()

	var result []*models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Title, &b.Amount, &b.UserID, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateBudget(ctx context.Context, budget *models.Budget) error {
	query := `INSERT INTO budgets (id, title, amount, user_id) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, budget.ID, budget.Title, budget.Amount, budget.UserID); err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	query := `
		SELECT id, title, amount, budget_id, paid_by, user_id, created_at
		FROM expenses WHERE user_id=$1 ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select expenses: %w", err)
	}
	defer rows.Close()

	var result []*models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.BudgetID, &e.PaidBy, &e.UserID, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) CreateExpense(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, title, amount, budget_id, paid_by, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		expense.ID, expense.Title, expense.Amount, expense.BudgetID, expense.PaidBy, expense.UserID)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpense(ctx context.Context, id, userID string) error {
	query := `DELETE FROM expenses WHERE id=$1 AND user_id=$2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
