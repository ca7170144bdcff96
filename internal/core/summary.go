package core

import (
	"sort"
	"time"
)

// DefaultRecentLimit is how many transactions the month overview surfaces
// as recent activity.
const DefaultRecentLimit = 5

// MonthSummary is the display-ready aggregate for one owner and month.
type MonthSummary struct {
	Year    int
	Month   time.Month
	Income  Money
	Expense Money
	Balance Money
	Recent  []Transaction
}

// Summarize folds a month's transactions into income/expense totals and a
// recent-activity list. The input slice is never reordered or modified;
// Recent is a fresh slice sorted by creation time descending and truncated
// to recentLimit entries. An empty input yields zero totals and an empty
// recent list, which is a normal result, not an error.
func Summarize(year int, month time.Month, txs []Transaction, recentLimit int) MonthSummary {
	s := MonthSummary{Year: year, Month: month}
	for _, tx := range txs {
		switch tx.Kind {
		case Income:
			s.Income.Cents += tx.Amount.Cents
		case Expense:
			s.Expense.Cents += tx.Amount.Cents
		}
	}
	s.Balance = Money{Cents: s.Income.Cents - s.Expense.Cents}

	recent := make([]Transaction, len(txs))
	copy(recent, txs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if recentLimit >= 0 && len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	s.Recent = recent
	return s
}
