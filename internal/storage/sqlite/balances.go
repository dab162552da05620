package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairshare-app/backend/internal/models"
)

// GroupBalances returns the group's net balances keyed by user ID.
func (s *SQLiteStore) GroupBalances(ctx context.Context, groupID string) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, balance FROM balances WHERE group_id = ?",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]float64)
	for rows.Next() {
		var userID string
		var balance float64
		if err := rows.Scan(&userID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[userID] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}

// UserBalances returns every balance record a user holds across groups.
func (s *SQLiteStore) UserBalances(ctx context.Context, userID string) ([]*models.Balance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, group_id, balance, created_at, updated_at
		 FROM balances WHERE user_id = ? ORDER BY group_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user balances: %w", err)
	}
	defer rows.Close()

	var balances []*models.Balance
	for rows.Next() {
		b := &models.Balance{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.GroupID, &b.Balance, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}

// GroupIDs returns the IDs of every group holding balance records.
func (s *SQLiteStore) GroupIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT group_id FROM balances ORDER BY group_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list group ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group ids: %w", err)
	}

	return ids, nil
}

// GroupBalances returns all of a group's balance records within the transaction.
func (t *sqliteTx) GroupBalances(groupID string) (map[string]*models.Balance, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT id, user_id, group_id, balance, created_at, updated_at
		 FROM balances WHERE group_id = ?`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group balances: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*models.Balance)
	for rows.Next() {
		b := &models.Balance{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.GroupID, &b.Balance, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		records[b.UserID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return records, nil
}

// UpsertBalance inserts or updates one balance record.
func (t *sqliteTx) UpsertBalance(b *models.Balance) error {
	now := time.Now().Unix()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	_, err := t.tx.ExecContext(t.ctx,
		`INSERT INTO balances (id, user_id, group_id, balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, group_id) DO UPDATE SET
		     balance = excluded.balance,
		     updated_at = excluded.updated_at`,
		b.ID, b.UserID, b.GroupID, b.Balance, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert balance: %w", err)
	}
	return nil
}

// DeleteBalance removes a balance record by ID.
func (t *sqliteTx) DeleteBalance(id string) error {
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM balances WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete balance: %w", err)
	}
	return nil
}
