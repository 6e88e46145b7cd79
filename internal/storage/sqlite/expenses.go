package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/storage"
)

// CreateExpense persists an expense and all of its shares in one transaction.
// Partial persistence (an expense with some shares missing) would corrupt
// balances, so either everything commits or nothing does.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID any
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount_cents, date, payer_id, group_id, category, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount.Cents(), expense.Date,
		expense.PayerID, groupID, expense.Category, expense.SplitType, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Shares {
		share := &expense.Shares[i]
		share.ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expense_shares (expense_id, user_id, amount_cents, paid) VALUES (?, ?, ?, ?)`,
			share.ExpenseID, share.UserID, share.Amount.Cents(), share.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const expenseColumns = "id, description, amount_cents, date, payer_id, group_id, category, split_type, created_at"

func scanExpense(row interface{ Scan(...any) error }) (*models.Expense, error) {
	exp := &models.Expense{}
	var cents int64
	var groupID sql.NullString
	err := row.Scan(&exp.ID, &exp.Description, &cents, &exp.Date, &exp.PayerID,
		&groupID, &exp.Category, &exp.SplitType, &exp.CreatedAt)
	if err != nil {
		return nil, err
	}
	exp.Amount = money.FromCents(cents)
	if groupID.Valid {
		exp.GroupID = groupID.String
	}
	return exp, nil
}

// GetExpense retrieves an expense by ID, including its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	exp, err := scanExpense(s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadShares(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

// ListDirectExpensesForUser returns all group-less expenses the user paid or
// participates in.
func (s *SQLiteStore) ListDirectExpensesForUser(ctx context.Context, userID string) ([]models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses
		 WHERE group_id IS NULL
		   AND (payer_id = ? OR id IN (SELECT expense_id FROM expense_shares WHERE user_id = ?))
		 ORDER BY date DESC`,
		userID, userID,
	)
}

// ListExpensesByGroup returns all expenses of a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY date DESC`,
		groupID,
	)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	for i := range expenses {
		if err := s.loadShares(ctx, &expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *SQLiteStore) loadShares(ctx context.Context, exp *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, user_id, amount_cents, paid FROM expense_shares
		 WHERE expense_id = ? ORDER BY user_id`,
		exp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	exp.Shares = nil
	for rows.Next() {
		var share models.ExpenseShare
		var cents int64
		if err := rows.Scan(&share.ExpenseID, &share.UserID, &cents, &share.Paid); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		share.Amount = money.FromCents(cents)
		exp.Shares = append(exp.Shares, share)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating expense shares: %w", err)
	}
	return nil
}
