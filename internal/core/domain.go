package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

type (
	// TransactionKind carries the direction of a transaction. Amounts are
	// always positive; the kind decides whether they add to or subtract
	// from the balance.
	TransactionKind string

	// Money is a fixed-point amount in currency minor units.
	Money struct {
		Cents int64
	}

	// Transaction is one recorded income or expense. ID and CreatedAt are
	// assigned by the store; CreatedAt is the sole ordering key.
	// Transactions are immutable once recorded.
	Transaction struct {
		ID          int64
		OwnerID     uuid.UUID
		Amount      Money
		Kind        TransactionKind
		Category    string
		Description string
		CreatedAt   time.Time
	}

	// Budget is a monthly spending ceiling for one category. At most one
	// row exists per (owner, category, year, month); re-setting replaces
	// the previous amount.
	Budget struct {
		ID       int64
		OwnerID  uuid.UUID
		Category string
		Amount   Money
		Month    time.Month
		Year     int
	}

	// SavingGoal accumulates contributions toward a target. CurrentAmount
	// starts at zero and only ever grows, via the store's atomic
	// contribution operation. Over-funding past the target is allowed.
	SavingGoal struct {
		ID            int64
		OwnerID       uuid.UUID
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		CreatedAt     time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyGoalName = errors.New("empty goal name")
	ErrMissingOwner  = errors.New("missing owner identity")
)

func (k TransactionKind) Valid() bool {
	return k == Income || k == Expense
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrMissingOwner
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if b.OwnerID == uuid.Nil {
		return ErrMissingOwner
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Month < time.January || b.Month > time.December {
		return ErrInvalidMonth
	}
	if b.Year < 1 {
		return errors.New("invalid year")
	}
	return nil
}

func (g SavingGoal) Validate() error {
	if g.OwnerID == uuid.Nil {
		return ErrMissingOwner
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if len(g.Name) > 100 {
		return errors.New("goal name too long (max 100 characters)")
	}
	return g.TargetAmount.Validate()
}

// MonthWindow returns the half-open UTC window [first instant of the month,
// first instant of the next month). A transaction timestamped exactly at the
// start of the next month belongs to that month, never to this one.
func MonthWindow(year int, month time.Month) (start, end time.Time) {
	start = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
