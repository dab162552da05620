// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairshare-app/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrTransactionConflict is returned when concurrent transactions raced on
// the same records and the store's bounded retry was exhausted.
var ErrTransactionConflict = errors.New("transaction conflict")

// StorageError wraps a backend failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Tx is the transactional read-modify-write primitive over the balance store
// and expense records. Every write made through one Tx commits atomically or
// not at all.
type Tx interface {
	// GroupBalances returns all balance records for a group, keyed by
	// user ID.
	GroupBalances(groupID string) (map[string]*models.Balance, error)

	// UpsertBalance inserts or updates one balance record. The record's
	// ID and timestamps are populated by the store when empty.
	UpsertBalance(b *models.Balance) error

	// DeleteBalance removes a balance record by ID.
	DeleteBalance(id string) error

	// InsertExpense persists an expense with its payers and members.
	// The expense ID and CreatedAt are populated when empty.
	InsertExpense(e *models.Expense) error

	// DeleteExpense removes an expense and its payer/member rows.
	DeleteExpense(expenseID string) error
}

// Store defines the persistence collaborator consumed by the ledger and the
// service layer. This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing either.
type Store interface {
	// InTx runs fn inside one transaction, retrying a bounded number of
	// times on write conflicts before returning ErrTransactionConflict.
	InTx(ctx context.Context, fn func(Tx) error) error

	// GroupBalances returns the group's nonzero net balances keyed by
	// user ID.
	GroupBalances(ctx context.Context, groupID string) (map[string]float64, error)

	// GetExpense retrieves one expense by ID, ErrNotFound if absent.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UserBalances returns every balance record a user holds across
	// groups.
	UserBalances(ctx context.Context, userID string) ([]*models.Balance, error)

	// GroupIDs returns the IDs of every group holding balance records.
	GroupIDs(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
