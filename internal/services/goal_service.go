package services

import (
	"context"

	"github.com/google/uuid"

	"dompet/internal/core"
	"dompet/internal/store"
)

// GoalService manages savings goals and their contributions.
type GoalService struct {
	store store.GoalStore
}

func NewGoalService(st store.GoalStore) *GoalService {
	return &GoalService{store: st}
}

// List returns the owner's goals oldest first.
func (s *GoalService) List(ctx context.Context, owner uuid.UUID) ([]core.SavingGoal, error) {
	return s.store.ListGoals(ctx, owner)
}

// Create validates and persists a new goal. The current amount always
// starts at zero, whatever the caller put in g.
func (s *GoalService) Create(ctx context.Context, g core.SavingGoal) (core.SavingGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingGoal{}, err
	}
	return s.store.CreateGoal(ctx, g)
}

// Get returns one goal scoped to its owner.
func (s *GoalService) Get(ctx context.Context, goalID int64, owner uuid.UUID) (core.SavingGoal, error) {
	return s.store.GetGoal(ctx, goalID, owner)
}

// Contribute adds amount to the goal's current total. Non-positive amounts
// are rejected here rather than forwarded to the store; the increment
// itself happens atomically store-side.
func (s *GoalService) Contribute(ctx context.Context, goalID int64, owner uuid.UUID, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	return s.store.AddContribution(ctx, goalID, owner, amount)
}
