// Package store declares the ports the services consume to reach the
// backing data store, so the aggregation and pagination logic can run
// against the real SQLite repository or an in-memory fake interchangeably.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"
)

// ErrGoalNotFound is returned when a goal id does not exist for the given
// owner. Ownership misses and genuine absence are indistinguishable on
// purpose.
var ErrGoalNotFound = errors.New("saving goal not found")

// OperationError wraps any failure coming out of the backing store, so
// callers deal with exactly one error kind regardless of driver. Operations
// either succeed completely or fail with an OperationError; there are no
// partial results.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }

// Fail wraps err as an OperationError unless it already is one or is a
// domain sentinel that callers match on.
func Fail(op string, err error) error {
	var opErr *OperationError
	if errors.As(err, &opErr) || errors.Is(err, ErrGoalNotFound) {
		return err
	}
	return &OperationError{Op: op, Err: err}
}

type (
	TransactionStore interface {
		// ListRange returns the owner's transactions created in the
		// half-open window [start, end), in no particular order.
		ListRange(ctx context.Context, owner uuid.UUID, start, end time.Time) ([]core.Transaction, error)

		// ListPage returns one page of the owner's history sorted by
		// creation time descending. page is zero-based.
		ListPage(ctx context.Context, owner uuid.UUID, page, pageSize int) ([]core.Transaction, error)

		// InsertTransaction persists tx and returns it with the
		// store-assigned id and creation timestamp filled in.
		InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context, owner uuid.UUID, year int, month time.Month) ([]core.Budget, error)

		// UpsertBudget inserts b or, when a row already exists for
		// (owner, category, year, month), replaces its amount.
		UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	}

	GoalStore interface {
		// ListGoals returns the owner's goals oldest first.
		ListGoals(ctx context.Context, owner uuid.UUID) ([]core.SavingGoal, error)

		// CreateGoal persists g with a zero current amount.
		CreateGoal(ctx context.Context, g core.SavingGoal) (core.SavingGoal, error)

		GetGoal(ctx context.Context, goalID int64, owner uuid.UUID) (core.SavingGoal, error)

		// AddContribution increments the goal's current amount by amount
		// as a single atomic store-side operation. The client never
		// computes the new total.
		AddContribution(ctx context.Context, goalID int64, owner uuid.UUID, amount core.Money) error
	}

	// Store is the full capability surface of the backing data store.
	Store interface {
		TransactionStore
		BudgetStore
		GoalStore
	}
)
