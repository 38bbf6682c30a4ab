package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wayplan/wayplan/internal/server/models"
)

type ledgerResponse struct {
	Budgets  []*models.Budget  `json:"budgets"`
	Expenses []*models.Expense `json:"expenses"`
}

func (s *Server) handleExpensesList(w http.ResponseWriter, r *http.Request) {
	ledger, err := s.expenses.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ledgerResponse{Budgets: ledger.Budgets, Expenses: ledger.Expenses})
}

func (s *Server) handleExpensesSummary(w http.ResponseWriter, r *http.Request) {
	var budgetID *string
	if v := r.URL.Query().Get("budget_id"); v != "" {
		budgetID = &v
	}

	sum, err := s.expenses.Summarize(r.Context(), userID(r), budgetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleAddBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string  `json:"title"`
		Amount float64 `json:"amount"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	budget, err := s.expenses.AddBudget(r.Context(), userID(r), req.Title, req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string  `json:"title"`
		Amount   float64 `json:"amount"`
		BudgetID *string `json:"budget_id"`
		PaidBy   *string `json:"paid_by"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	expense, err := s.expenses.AddExpense(r.Context(), userID(r), req.Title, req.Amount, req.BudgetID, req.PaidBy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.RemoveExpense(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
