// Package memory is an in-memory ledger used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"dompet/internal/core"
	"dompet/internal/ledger"
)

type Ledger struct {
	mu   sync.Mutex
	rows []core.Transaction
}

var _ ledger.Appender = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{}
}

// AppendTransaction stores the row and returns a synthetic reference.
func (l *Ledger) AppendTransaction(_ context.Context, tx core.Transaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, tx)
	return fmt.Sprintf("mem:%d", len(l.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (l *Ledger) Rows() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.rows...)
}
