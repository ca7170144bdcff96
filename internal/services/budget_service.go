package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"
	"dompet/internal/store"
)

// BudgetService sets monthly ceilings and reconciles them with spending.
type BudgetService struct {
	budgets      store.BudgetStore
	transactions store.TransactionStore
}

func NewBudgetService(budgets store.BudgetStore, transactions store.TransactionStore) *BudgetService {
	return &BudgetService{budgets: budgets, transactions: transactions}
}

// SetBudget validates and upserts b. Re-setting the same (owner, category,
// year, month) replaces the previous amount instead of adding a row.
func (s *BudgetService) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return s.budgets.UpsertBudget(ctx, b)
}

// MonthStatuses joins the month's budgets with the same month's spending.
// Either fetch failing fails the whole reconciliation; there are no partial
// results. Only budgeted categories appear in the output.
func (s *BudgetService) MonthStatuses(ctx context.Context, owner uuid.UUID, year int, month time.Month) ([]core.BudgetStatus, error) {
	budgets, err := s.budgets.ListBudgets(ctx, owner, year, month)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}

	start, end := core.MonthWindow(year, month)
	txs, err := s.transactions.ListRange(ctx, owner, start, end)
	if err != nil {
		return nil, fmt.Errorf("load month transactions: %w", err)
	}

	return core.Reconcile(budgets, txs), nil
}
