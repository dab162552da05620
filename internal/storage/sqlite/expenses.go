package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fairshare-app/backend/internal/models"
	"github.com/fairshare-app/backend/internal/storage"
)

// InsertExpense persists an expense with its payer and member rows.
func (t *sqliteTx) InsertExpense(e *models.Expense) error {
	// Generate IDs and timestamps if not set
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	if e.Date == 0 {
		e.Date = e.CreatedAt
	}

	_, err := t.tx.ExecContext(t.ctx,
		"INSERT INTO expenses (id, group_id, title, amount, date, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.GroupID, e.Title, e.Amount, e.Date, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, p := range e.Payers {
		_, err = t.tx.ExecContext(t.ctx,
			"INSERT INTO expense_payers (expense_id, user_id, paid_amount) VALUES (?, ?, ?)",
			e.ID, p.UserID, p.PaidAmount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}

	for _, m := range e.Members {
		_, err = t.tx.ExecContext(t.ctx,
			"INSERT INTO expense_members (expense_id, user_id, amount_owed) VALUES (?, ?, ?)",
			e.ID, m.UserID, m.AmountOwed,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	return nil
}

// DeleteExpense removes an expense; payer and member rows cascade.
func (t *sqliteTx) DeleteExpense(expenseID string) error {
	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// GetExpense retrieves an expense by ID, including payers and members.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, title, amount, date, created_at FROM expenses WHERE id = ?",
		expenseID,
	).Scan(&e.ID, &e.GroupID, &e.Title, &e.Amount, &e.Date, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadParticipants(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, amount, date, created_at
		 FROM expenses WHERE group_id = ? ORDER BY date DESC, created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Title, &e.Amount, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, e := range expenses {
		if err := s.loadParticipants(ctx, e); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// loadParticipants fills in the payer and member rows for one expense.
func (s *SQLiteStore) loadParticipants(ctx context.Context, e *models.Expense) error {
	payerRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, paid_amount FROM expense_payers WHERE expense_id = ? ORDER BY user_id",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var p models.Payer
		if err := payerRows.Scan(&p.UserID, &p.PaidAmount); err != nil {
			return fmt.Errorf("failed to scan payer: %w", err)
		}
		e.Payers = append(e.Payers, p)
	}
	if err := payerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payers: %w", err)
	}

	memberRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount_owed FROM expense_members WHERE expense_id = ? ORDER BY user_id",
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var m models.Member
		if err := memberRows.Scan(&m.UserID, &m.AmountOwed); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		e.Members = append(e.Members, m)
	}
	if err := memberRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}

	return nil
}
