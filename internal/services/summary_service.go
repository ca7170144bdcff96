// Package services orchestrates the pure core logic over the store ports.
// Every operation takes the owner identity explicitly; nothing is read from
// ambient state.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"
	"dompet/internal/store"
)

// SummaryService produces the month overview the home screen renders.
type SummaryService struct {
	store       store.TransactionStore
	recentLimit int
}

func NewSummaryService(st store.TransactionStore, recentLimit int) *SummaryService {
	if recentLimit <= 0 {
		recentLimit = core.DefaultRecentLimit
	}
	return &SummaryService{store: st, recentLimit: recentLimit}
}

// MonthOverview fetches the owner's transactions inside the month's
// half-open window and aggregates them. A month without transactions is a
// normal zero-valued result; a store failure fails the whole call.
func (s *SummaryService) MonthOverview(ctx context.Context, owner uuid.UUID, year int, month time.Month) (core.MonthSummary, error) {
	start, end := core.MonthWindow(year, month)
	txs, err := s.store.ListRange(ctx, owner, start, end)
	if err != nil {
		return core.MonthSummary{}, fmt.Errorf("load month transactions: %w", err)
	}
	return core.Summarize(year, month, txs, s.recentLimit), nil
}
