// Package service exposes the caller-facing API over the allocator, ledger,
// and settlement planner. The core packages below it never log or touch the
// cache; both happen here.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairshare-app/backend/internal/cache"
	"github.com/fairshare-app/backend/internal/calculator"
	"github.com/fairshare-app/backend/internal/ledger"
	"github.com/fairshare-app/backend/internal/models"
	"github.com/fairshare-app/backend/internal/settlement"
	"github.com/fairshare-app/backend/internal/storage"
)

// DefaultPlanTTL bounds how long a cached settlement plan may outlive the
// balances it was computed from. Plans are also invalidated on every ledger
// write, so the TTL only matters for writes made by other instances.
const DefaultPlanTTL = 5 * time.Minute

// ExpenseService wires the allocator, ledger, planner, store, and cache into
// the operations the application calls.
type ExpenseService struct {
	store   storage.Store
	ledger  *ledger.Ledger
	cache   cache.Cache
	planTTL time.Duration
}

// NewExpenseService creates an ExpenseService with the given collaborators.
// A zero ttl falls back to DefaultPlanTTL.
func NewExpenseService(store storage.Store, c cache.Cache, ttl time.Duration) *ExpenseService {
	if ttl <= 0 {
		ttl = DefaultPlanTTL
	}
	return &ExpenseService{
		store:   store,
		ledger:  ledger.New(store),
		cache:   c,
		planTTL: ttl,
	}
}

// UserSummary totals one user's position across all groups.
type UserSummary struct {
	// Owed is what other people owe this user.
	Owed float64 `json:"owed"`
	// Owes is what this user owes other people.
	Owes float64 `json:"owes"`
}

// Allocate computes per-member owed amounts for an expense under composition.
func (s *ExpenseService) Allocate(total float64, shares []calculator.MemberShare, mode calculator.SplitMode) ([]models.Member, error) {
	return calculator.Allocate(total, shares, mode)
}

// AddExpense validates the expense and applies it to the group's balances in
// one transaction.
func (s *ExpenseService) AddExpense(ctx context.Context, e *models.Expense) error {
	if e.GroupID == "" {
		return &calculator.InvalidSplitStateError{Reason: "expense has no group"}
	}
	if err := calculator.ValidateExpense(e); err != nil {
		return err
	}

	if err := s.ledger.ApplyExpense(ctx, e); err != nil {
		slog.Error("AddExpense failed", "group_id", e.GroupID, "error", err)
		return err
	}

	s.invalidatePlan(ctx, e.GroupID)
	slog.Info("Expense added", "expense_id", e.ID, "group_id", e.GroupID, "amount", e.Amount)
	return nil
}

// DeleteExpense reverses a stored expense's effect on the group's balances
// and removes its record, in one transaction.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID string) error {
	e, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	if err := s.ledger.ReverseExpense(ctx, e); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "group_id", e.GroupID, "error", err)
		return err
	}

	s.invalidatePlan(ctx, e.GroupID)
	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", e.GroupID)
	return nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// GroupBalances returns the group's nonzero net balances keyed by user ID.
func (s *ExpenseService) GroupBalances(ctx context.Context, groupID string) (map[string]float64, error) {
	return s.store.GroupBalances(ctx, groupID)
}

// PlanSettlement computes the transfers that settle a group, caching the
// result until the group's next ledger write.
func (s *ExpenseService) PlanSettlement(ctx context.Context, groupID string) ([]models.Transfer, error) {
	key := planKey(groupID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var transfers []models.Transfer
		if err := json.Unmarshal([]byte(raw), &transfers); err == nil {
			return transfers, nil
		}
		// Undecodable entry: drop it and recompute.
		_ = s.cache.Del(ctx, key)
	}

	balances, err := s.store.GroupBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	transfers, err := settlement.Plan(balances)
	if err != nil {
		slog.Error("PlanSettlement failed", "group_id", groupID, "error", err)
		return nil, err
	}

	if raw, err := json.Marshal(transfers); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.planTTL); err != nil {
			slog.Warn("Failed to cache settlement plan", "group_id", groupID, "error", err)
		}
	}
	return transfers, nil
}

// Summary totals what the user is owed and owes across all their groups.
func (s *ExpenseService) Summary(ctx context.Context, userID string) (*UserSummary, error) {
	records, err := s.store.UserBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &UserSummary{}
	for _, b := range records {
		if b.Balance > 0 {
			summary.Owed += b.Balance
		} else if b.Balance < 0 {
			summary.Owes += -b.Balance
		}
	}
	return summary, nil
}

func (s *ExpenseService) invalidatePlan(ctx context.Context, groupID string) {
	if err := s.cache.Del(ctx, planKey(groupID)); err != nil {
		slog.Warn("Failed to invalidate settlement plan", "group_id", groupID, "error", err)
	}
}

func planKey(groupID string) string {
	return fmt.Sprintf("settlement:%s", groupID)
}
