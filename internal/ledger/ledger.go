// Package ledger keeps per-(user, group) balances consistent with the set of
// expenses applied to a group.
//
// Every member share subtracts from that member's balance and every payer
// contribution adds to the payer's. Because a valid expense has
// sum(owed) == sum(paid) == amount, applying or reversing it never changes
// the group-wide balance sum: the zero-sum invariant holds by construction.
package ledger

import (
	"context"
	"fmt"

	"github.com/fairshare-app/backend/internal/models"
	"github.com/fairshare-app/backend/internal/storage"
)

// deltas collapses an expense into one signed balance delta per user.
// Members go negative by what they owe, payers go positive by what they paid;
// a user appearing on both sides nets out.
func deltas(e *models.Expense) map[string]float64 {
	d := make(map[string]float64, len(e.Members)+len(e.Payers))
	for _, m := range e.Members {
		d[m.UserID] -= m.AmountOwed
	}
	for _, p := range e.Payers {
		d[p.UserID] += p.PaidAmount
	}
	return d
}

// Apply returns a copy of balances with the expense's deltas applied. Users
// with no prior balance start from zero. The input map is not modified.
func Apply(balances map[string]float64, e *models.Expense) map[string]float64 {
	out := make(map[string]float64, len(balances))
	for userID, amount := range balances {
		out[userID] = amount
	}
	for userID, delta := range deltas(e) {
		out[userID] += delta
	}
	return out
}

// Reverse returns a copy of balances with the expense's deltas undone. It is
// the exact inverse of Apply.
func Reverse(balances map[string]float64, e *models.Expense) map[string]float64 {
	out := make(map[string]float64, len(balances))
	for userID, amount := range balances {
		out[userID] = amount
	}
	for userID, delta := range deltas(e) {
		out[userID] -= delta
	}
	return out
}

// Ledger owns all mutation of persisted balance records. Each operation runs
// as one transaction against the store: the expense row and every balance
// delta commit together or not at all. Conflict retries happen inside the
// store; the ledger only expresses the operation as a single unit.
type Ledger struct {
	store storage.Store
}

// New creates a Ledger backed by the given store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// ApplyExpense atomically records the expense and shifts every affected
// balance. The expense must already be validated by the caller.
func (l *Ledger) ApplyExpense(ctx context.Context, e *models.Expense) error {
	return l.store.InTx(ctx, func(tx storage.Tx) error {
		if err := l.shiftBalances(tx, e, +1); err != nil {
			return err
		}
		if err := tx.InsertExpense(e); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		return nil
	})
}

// ReverseExpense atomically deletes the expense record and undoes its effect
// on every affected balance.
func (l *Ledger) ReverseExpense(ctx context.Context, e *models.Expense) error {
	return l.store.InTx(ctx, func(tx storage.Tx) error {
		if err := l.shiftBalances(tx, e, -1); err != nil {
			return err
		}
		if err := tx.DeleteExpense(e.ID); err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		return nil
	})
}

// shiftBalances applies the expense's deltas, scaled by sign, to the group's
// balance records inside tx. Records landing under epsilon are deleted so
// only nonzero pairs stay stored.
func (l *Ledger) shiftBalances(tx storage.Tx, e *models.Expense, sign float64) error {
	records, err := tx.GroupBalances(e.GroupID)
	if err != nil {
		return fmt.Errorf("read group balances: %w", err)
	}

	for userID, delta := range deltas(e) {
		record, ok := records[userID]
		if !ok {
			record = &models.Balance{UserID: userID, GroupID: e.GroupID}
		}
		record.Balance += sign * delta

		if models.ZeroAmount(record.Balance) {
			if record.ID == "" {
				continue // never persisted, nothing to delete
			}
			if err := tx.DeleteBalance(record.ID); err != nil {
				return fmt.Errorf("delete balance for %s: %w", userID, err)
			}
			continue
		}

		if err := tx.UpsertBalance(record); err != nil {
			return fmt.Errorf("upsert balance for %s: %w", userID, err)
		}
	}
	return nil
}
