// Package memory provides an in-memory store.Store used by tests and as a
// throwaway backend for local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"
	"dompet/internal/store"
)

// Store keeps everything in slices behind a mutex. Ids are assigned
// sequentially; creation timestamps come from Now, which tests may replace
// to pin ordering.
type Store struct {
	// Now supplies store-assigned creation timestamps.
	Now func() time.Time

	// ForcedErr, when set, makes every operation fail with it. Used to
	// exercise failure paths.
	ForcedErr error

	mu      sync.Mutex
	nextID  int64
	txs     []core.Transaction
	budgets []core.Budget
	goals   []core.SavingGoal
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{Now: time.Now}
}

func (s *Store) fail(op string) error {
	if s.ForcedErr == nil {
		return nil
	}
	return store.Fail(op, s.ForcedErr)
}

func (s *Store) ListRange(_ context.Context, owner uuid.UUID, start, end time.Time) ([]core.Transaction, error) {
	if err := s.fail("list transactions by range"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.txs {
		if tx.OwnerID != owner {
			continue
		}
		if tx.CreatedAt.Before(start) || !tx.CreatedAt.Before(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (s *Store) ListPage(_ context.Context, owner uuid.UUID, page, pageSize int) ([]core.Transaction, error) {
	if err := s.fail("list transactions by page"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []core.Transaction
	for _, tx := range s.txs {
		if tx.OwnerID == owner {
			owned = append(owned, tx)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		if owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].ID > owned[j].ID
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	from := page * pageSize
	if from >= len(owned) {
		return []core.Transaction{}, nil
	}
	to := from + pageSize
	if to > len(owned) {
		to = len(owned)
	}
	return append([]core.Transaction(nil), owned[from:to]...), nil
}

func (s *Store) InsertTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := s.fail("insert transaction"); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	tx.ID = s.nextID
	tx.CreatedAt = s.Now().UTC()
	s.txs = append(s.txs, tx)
	return tx, nil
}

// SeedTransaction stores tx verbatim, keeping its timestamp. Test helper.
func (s *Store) SeedTransaction(tx core.Transaction) core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	tx.ID = s.nextID
	s.txs = append(s.txs, tx)
	return tx
}

func (s *Store) ListBudgets(_ context.Context, owner uuid.UUID, year int, month time.Month) ([]core.Budget, error) {
	if err := s.fail("list budgets"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Budget
	for _, b := range s.budgets {
		if b.OwnerID == owner && b.Year == year && b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := s.fail("upsert budget"); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.budgets {
		if existing.OwnerID == b.OwnerID && existing.Category == b.Category &&
			existing.Year == b.Year && existing.Month == b.Month {
			s.budgets[i].Amount = b.Amount
			return s.budgets[i], nil
		}
	}
	s.nextID++
	b.ID = s.nextID
	s.budgets = append(s.budgets, b)
	return b, nil
}

// BudgetCount reports how many budget rows exist. Test helper.
func (s *Store) BudgetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.budgets)
}

func (s *Store) ListGoals(_ context.Context, owner uuid.UUID) ([]core.SavingGoal, error) {
	if err := s.fail("list goals"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.SavingGoal
	for _, g := range s.goals {
		if g.OwnerID == owner {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateGoal(_ context.Context, g core.SavingGoal) (core.SavingGoal, error) {
	if err := s.fail("create goal"); err != nil {
		return core.SavingGoal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	g.ID = s.nextID
	g.CurrentAmount = core.Money{}
	g.CreatedAt = s.Now().UTC()
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) GetGoal(_ context.Context, goalID int64, owner uuid.UUID) (core.SavingGoal, error) {
	if err := s.fail("get goal"); err != nil {
		return core.SavingGoal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.goals {
		if g.ID == goalID && g.OwnerID == owner {
			return g, nil
		}
	}
	return core.SavingGoal{}, store.ErrGoalNotFound
}

func (s *Store) AddContribution(_ context.Context, goalID int64, owner uuid.UUID, amount core.Money) error {
	if err := s.fail("add contribution"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID == goalID && g.OwnerID == owner {
			s.goals[i].CurrentAmount.Cents += amount.Cents
			return nil
		}
	}
	return store.ErrGoalNotFound
}
