package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"
	"dompet/internal/store"
)

var (
	owner      = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	otherOwner = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// insertAt records a transaction with a pinned timestamp.
func insertAt(t *testing.T, repo *Repository, o uuid.UUID, kind core.TransactionKind, cents int64, at time.Time) core.Transaction {
	t.Helper()
	repo.now = func() time.Time { return at }
	tx, err := repo.InsertTransaction(context.Background(), core.Transaction{
		OwnerID:  o,
		Amount:   core.Money{Cents: cents},
		Kind:     kind,
		Category: "General",
	})
	if err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}
	return tx
}

func TestInsertAndListRange(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	start, end := core.MonthWindow(2025, time.May)

	insertAt(t, repo, owner, core.Income, 100000, start)              // first instant: in
	insertAt(t, repo, owner, core.Expense, 2500, end.Add(-time.Nanosecond)) // last instant: in
	insertAt(t, repo, owner, core.Expense, 9999, end)                 // next month: out
	insertAt(t, repo, otherOwner, core.Expense, 7777, start)          // other owner: out

	txs, err := repo.ListRange(ctx, owner, start, end)
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}

	var total int64
	for _, tx := range txs {
		total += tx.Amount.Cents
	}
	if total != 102500 {
		t.Errorf("window total = %d, want 102500", total)
	}
}

func TestListPageOrderingAndBounds(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertAt(t, repo, owner, core.Expense, int64(100+i), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := repo.ListPage(ctx, owner, 0, 3)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("page 0: got %d transactions, want 3", len(page))
	}
	for i := 1; i < len(page); i++ {
		if page[i].CreatedAt.After(page[i-1].CreatedAt) {
			t.Fatal("page not ordered newest first")
		}
	}
	if page[0].Amount.Cents != 104 {
		t.Errorf("newest transaction amount = %d, want 104", page[0].Amount.Cents)
	}

	page, err = repo.ListPage(ctx, owner, 1, 3)
	if err != nil {
		t.Fatalf("ListPage page 1: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("page 1: got %d transactions, want 2", len(page))
	}

	page, err = repo.ListPage(ctx, owner, 2, 3)
	if err != nil {
		t.Fatalf("ListPage past end: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("page past end: got %d transactions, want 0", len(page))
	}

	if _, err := repo.ListPage(ctx, owner, -1, 3); err == nil {
		t.Error("ListPage accepted a negative page")
	}
}

func TestListPageStableOrderWithinSameInstant(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	at := time.Date(2025, time.May, 1, 12, 0, 0, 0, time.UTC)
	first := insertAt(t, repo, owner, core.Expense, 100, at)
	second := insertAt(t, repo, owner, core.Expense, 200, at)

	page, err := repo.ListPage(ctx, owner, 0, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("got %d transactions, want 2", len(page))
	}
	// Same instant: higher id (recorded later) comes first.
	if page[0].ID != second.ID || page[1].ID != first.ID {
		t.Errorf("order = [%d %d], want [%d %d]", page[0].ID, page[1].ID, second.ID, first.ID)
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	b := core.Budget{
		OwnerID:  owner,
		Category: "Groceries",
		Amount:   core.Money{Cents: 50000},
		Month:    time.May,
		Year:     2025,
	}
	created, err := repo.UpsertBudget(ctx, b)
	if err != nil {
		t.Fatalf("UpsertBudget: %v", err)
	}

	b.Amount = core.Money{Cents: 65000}
	updated, err := repo.UpsertBudget(ctx, b)
	if err != nil {
		t.Fatalf("UpsertBudget again: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("upsert created a new row: id %d, want %d", updated.ID, created.ID)
	}

	budgets, err := repo.ListBudgets(ctx, owner, 2025, time.May)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("got %d budgets, want 1", len(budgets))
	}
	if budgets[0].Amount.Cents != 65000 {
		t.Errorf("amount = %d, want 65000", budgets[0].Amount.Cents)
	}

	// Same category in another month is a separate row.
	b.Month = time.June
	if _, err := repo.UpsertBudget(ctx, b); err != nil {
		t.Fatalf("UpsertBudget other month: %v", err)
	}
	budgets, err = repo.ListBudgets(ctx, owner, 2025, time.May)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Errorf("May still has %d budgets, want 1", len(budgets))
	}
}

func TestGoalContribution(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	repo.now = func() time.Time { return time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC) }
	goal, err := repo.CreateGoal(ctx, core.SavingGoal{
		OwnerID:      owner,
		Name:         "Vacation",
		TargetAmount: core.Money{Cents: 500000},
		// Client-sent progress must be ignored.
		CurrentAmount: core.Money{Cents: 123456},
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if goal.CurrentAmount.Cents != 0 {
		t.Errorf("new goal CurrentAmount = %d, want 0", goal.CurrentAmount.Cents)
	}

	if err := repo.AddContribution(ctx, goal.ID, owner, core.Money{Cents: 20000}); err != nil {
		t.Fatalf("AddContribution: %v", err)
	}
	if err := repo.AddContribution(ctx, goal.ID, owner, core.Money{Cents: 5000}); err != nil {
		t.Fatalf("second AddContribution: %v", err)
	}

	got, err := repo.GetGoal(ctx, goal.ID, owner)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.CurrentAmount.Cents != 25000 {
		t.Errorf("CurrentAmount = %d, want 25000", got.CurrentAmount.Cents)
	}
}

func TestGoalNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.GetGoal(ctx, 42, owner); !errors.Is(err, store.ErrGoalNotFound) {
		t.Errorf("GetGoal error = %v, want ErrGoalNotFound", err)
	}
	if err := repo.AddContribution(ctx, 42, owner, core.Money{Cents: 100}); !errors.Is(err, store.ErrGoalNotFound) {
		t.Errorf("AddContribution error = %v, want ErrGoalNotFound", err)
	}

	// A goal belonging to someone else is indistinguishable from a missing
	// one.
	repo.now = time.Now
	goal, err := repo.CreateGoal(ctx, core.SavingGoal{
		OwnerID: owner, Name: "Bike", TargetAmount: core.Money{Cents: 80000},
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if err := repo.AddContribution(ctx, goal.ID, otherOwner, core.Money{Cents: 100}); !errors.Is(err, store.ErrGoalNotFound) {
		t.Errorf("cross-owner AddContribution error = %v, want ErrGoalNotFound", err)
	}
}

func TestExportBookkeeping(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	first := insertAt(t, repo, owner, core.Expense, 100, base)
	second := insertAt(t, repo, owner, core.Expense, 200, base.Add(time.Minute))

	pending, err := repo.ListUnexported(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnexported: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("got %d pending transactions, want 2", len(pending))
	}
	// Oldest first so the mirror preserves recording order.
	if pending[0].ID != first.ID {
		t.Errorf("first pending id = %d, want %d", pending[0].ID, first.ID)
	}

	if err := repo.MarkExported(ctx, first.ID); err != nil {
		t.Fatalf("MarkExported: %v", err)
	}

	exported, err := repo.IsExported(ctx, first.ID)
	if err != nil {
		t.Fatalf("IsExported: %v", err)
	}
	if !exported {
		t.Error("marked transaction still reported as pending")
	}

	pending, err = repo.ListUnexported(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnexported: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Errorf("pending = %v, want only transaction %d", pending, second.ID)
	}
}

func TestInsertRejectsBadKindAtSchema(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.InsertTransaction(context.Background(), core.Transaction{
		OwnerID:  owner,
		Amount:   core.Money{Cents: 100},
		Kind:     "transfer",
		Category: "General",
	})
	if err == nil {
		t.Fatal("schema accepted an unknown transaction kind")
	}
	var opErr *store.OperationError
	if !errors.As(err, &opErr) {
		t.Errorf("error %v is not a store operation failure", err)
	}
}
