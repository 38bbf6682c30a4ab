package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wayplan/wayplan/internal/common"
	"github.com/wayplan/wayplan/internal/feed"
	"github.com/wayplan/wayplan/internal/server/models"
	"github.com/wayplan/wayplan/internal/server/repositories/repomanager"
)

// ExpenseService manages trip budgets and the expenses booked against
// them.
type ExpenseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	pub         feed.Publisher
}

func NewExpenseService(db *sql.DB, m repomanager.RepositoryManager, pub feed.Publisher) *ExpenseService {
	return &ExpenseService{db: db, repomanager: m, pub: pub}
}

// Ledger is a snapshot of budgets and expenses.
type Ledger struct {
	Budgets  []*models.Budget
	Expenses []*models.Expense
}

// Summary aggregates one budget against its expenses.
type Summary struct {
	Budget    *models.Budget     `json:"budget,omitempty"`
	Total     float64            `json:"total"`
	Balance   float64            `json:"balance"`
	PaidTotal map[string]float64 `json:"paid_totals"`
}

func (s *ExpenseService) List(ctx context.Context, owner string) (*Ledger, error) {
	budgets, err := s.repomanager.Expenses(s.db).ListBudgets(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing budgets: %v", err)
	}

	expenses, err := s.repomanager.Expenses(s.db).ListExpenses(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("error listing expenses: %v", err)
	}

	return &Ledger{Budgets: budgets, Expenses: expenses}, nil
}

func (s *ExpenseService) AddBudget(ctx context.Context, owner, title string, amount float64) (*models.Budget, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: budget title cannot be empty", common.ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: budget amount must be positive", common.ErrValidation)
	}

	budget := &models.Budget{
		ID:     uuid.NewString(),
		Title:  title,
		Amount: amount,
		UserID: owner,
	}

	if err := s.repomanager.Expenses(s.db).CreateBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("error creating budget: %v", err)
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableBudgets, Kind: feed.KindInserted,
		ID: budget.ID, Payload: budget, OwnerID: owner,
	})

	return budget, nil
}

// AddExpense books an expense; paidBy defaults to the acting user.
func (s *ExpenseService) AddExpense(ctx context.Context, owner, title string, amount float64, budgetID *string, paidBy *string) (*models.Expense, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: expense title cannot be empty", common.ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: expense amount must be positive", common.ErrValidation)
	}

	if paidBy == nil {
		paidBy = &owner
	}

	expense := &models.Expense{
		ID:       uuid.NewString(),
		Title:    title,
		Amount:   amount,
		BudgetID: budgetID,
		PaidBy:   paidBy,
		UserID:   owner,
	}

	if err := s.repomanager.Expenses(s.db).CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("error creating expense: %v", err)
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableExpenses, Kind: feed.KindInserted,
		ID: expense.ID, Payload: expense, OwnerID: owner,
	})

	return expense, nil
}

func (s *ExpenseService) RemoveExpense(ctx context.Context, owner, expenseID string) error {
	if err := s.repomanager.Expenses(s.db).DeleteExpense(ctx, expenseID, owner); err != nil {
		return err
	}

	s.pub.Publish(feed.Event{
		Table: feed.TableExpenses, Kind: feed.KindDeleted,
		ID: expenseID, OwnerID: owner,
	})

	return nil
}

// Summarize totals all expenses, or only those booked against budgetID
// when given, and reports who paid how much.
func (s *ExpenseService) Summarize(ctx context.Context, owner string, budgetID *string) (*Summary, error) {
	ledger, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	sum := &Summary{PaidTotal: make(map[string]float64)}

	if budgetID != nil {
		for _, b := range ledger.Budgets {
			if b.ID == *budgetID {
				sum.Budget = b
				break
			}
		}
		if sum.Budget == nil {
			return nil, common.ErrNotFound
		}
	}

	for _, e := range ledger.Expenses {
		if budgetID != nil && (e.BudgetID == nil || *e.BudgetID != *budgetID) {
			continue
		}
		sum.Total += e.Amount
		if e.PaidBy != nil {
			sum.PaidTotal[*e.PaidBy] += e.Amount
		}
	}

	if sum.Budget != nil {
		sum.Balance = sum.Budget.Amount - sum.Total
	}

	return sum, nil
}
