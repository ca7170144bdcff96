package core

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

var testOwner = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func validTransaction() Transaction {
	return Transaction{
		OwnerID:  testOwner,
		Amount:   Money{Cents: 1500},
		Kind:     Expense,
		Category: "Groceries",
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"missing owner", func(tx *Transaction) { tx.OwnerID = uuid.Nil }, ErrMissingOwner},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"unknown kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("description too long", func(t *testing.T) {
		tx := validTransaction()
		tx.Description = strings.Repeat("x", 201)
		if err := tx.Validate(); err == nil {
			t.Error("Validate() accepted a 201-character description")
		}
	})
}

func TestBudgetValidate(t *testing.T) {
	valid := Budget{
		OwnerID:  testOwner,
		Category: "Rent",
		Amount:   Money{Cents: 120000},
		Month:    time.March,
		Year:     2025,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	for _, month := range []time.Month{0, 13} {
		b := valid
		b.Month = month
		if !errors.Is(b.Validate(), ErrInvalidMonth) {
			t.Errorf("Validate() with month %d: want ErrInvalidMonth", month)
		}
	}

	b := valid
	b.Amount = Money{Cents: -1}
	if !errors.Is(b.Validate(), ErrInvalidAmount) {
		t.Error("Validate() accepted a negative budget amount")
	}
}

func TestSavingGoalValidate(t *testing.T) {
	valid := SavingGoal{
		OwnerID:      testOwner,
		Name:         "Vacation",
		TargetAmount: Money{Cents: 500000},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	g := valid
	g.Name = ""
	if !errors.Is(g.Validate(), ErrEmptyGoalName) {
		t.Error("Validate() accepted an empty goal name")
	}

	g = valid
	g.Name = strings.Repeat("n", 101)
	if g.Validate() == nil {
		t.Error("Validate() accepted a 101-character goal name")
	}

	g = valid
	g.TargetAmount = Money{}
	if !errors.Is(g.Validate(), ErrInvalidAmount) {
		t.Error("Validate() accepted a zero target amount")
	}
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(2025, time.January)

	if want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}

	// December rolls into the next year.
	_, end = MonthWindow(2025, time.December)
	if want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("December end = %v, want %v", end, want)
	}
}
