package core

// BudgetStatus joins one budget with the same month's spending in its
// category.
type BudgetStatus struct {
	Category  string
	Limit     Money
	Spent     Money
	Remaining Money // Limit minus Spent; negative means overspent, never clamped
}

// Reconcile produces one status per budget, in the budgets' own order.
// Spending is the sum of expense-kind transactions whose category matches
// the budget's exactly (case sensitive); income never counts against a
// budget. Categories with transactions but no budget row are left out:
// without a ceiling there is nothing to reconcile against.
func Reconcile(budgets []Budget, txs []Transaction) []BudgetStatus {
	spent := make(map[string]int64, len(budgets))
	for _, tx := range txs {
		if tx.Kind == Expense {
			spent[tx.Category] += tx.Amount.Cents
		}
	}

	statuses := make([]BudgetStatus, len(budgets))
	for i, b := range budgets {
		used := spent[b.Category]
		statuses[i] = BudgetStatus{
			Category:  b.Category,
			Limit:     b.Amount,
			Spent:     Money{Cents: used},
			Remaining: Money{Cents: b.Amount.Cents - used},
		}
	}
	return statuses
}
