package http

import (
	"time"

	"dompet/internal/core"
)

// View types shape domain values for JSON. Amounts go out both as a
// display string and as raw cents so clients never re-parse decimals.

type transactionView struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func newTransactionView(tx core.Transaction) transactionView {
	return transactionView{
		ID:          tx.ID,
		Amount:      tx.Amount.String(),
		AmountCents: tx.Amount.Cents,
		Kind:        string(tx.Kind),
		Category:    tx.Category,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func newTransactionViews(txs []core.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, tx := range txs {
		views = append(views, newTransactionView(tx))
	}
	return views
}

type overviewView struct {
	Year    int               `json:"year"`
	Month   int               `json:"month"`
	Income  string            `json:"income"`
	Expense string            `json:"expense"`
	Balance string            `json:"balance"`
	Recent  []transactionView `json:"recent"`
}

func newOverviewView(s core.MonthSummary) overviewView {
	return overviewView{
		Year:    s.Year,
		Month:   int(s.Month),
		Income:  s.Income.String(),
		Expense: s.Expense.String(),
		Balance: s.Balance.String(),
		Recent:  newTransactionViews(s.Recent),
	}
}

type budgetStatusView struct {
	Category       string `json:"category"`
	Limit          string `json:"limit"`
	Spent          string `json:"spent"`
	Remaining      string `json:"remaining"`
	RemainingCents int64  `json:"remaining_cents"`
}

func newBudgetStatusViews(statuses []core.BudgetStatus) []budgetStatusView {
	views := make([]budgetStatusView, 0, len(statuses))
	for _, st := range statuses {
		views = append(views, budgetStatusView{
			Category:       st.Category,
			Limit:          st.Limit.String(),
			Spent:          st.Spent.String(),
			Remaining:      st.Remaining.String(),
			RemainingCents: st.Remaining.Cents,
		})
	}
	return views
}

type budgetView struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
}

func newBudgetView(b core.Budget) budgetView {
	return budgetView{
		ID:       b.ID,
		Category: b.Category,
		Amount:   b.Amount.String(),
		Year:     b.Year,
		Month:    int(b.Month),
	}
}

type goalView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	TargetAmount  string `json:"target_amount"`
	CurrentAmount string `json:"current_amount"`
	CreatedAt     string `json:"created_at"`
}

func newGoalView(g core.SavingGoal) goalView {
	return goalView{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		CreatedAt:     g.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func newGoalViews(goals []core.SavingGoal) []goalView {
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, newGoalView(g))
	}
	return views
}
