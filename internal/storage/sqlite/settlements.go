package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	if settlement.Date == 0 {
		settlement.Date = now
	}

	var description any
	if settlement.Description != "" {
		description = settlement.Description
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, payer_id, receiver_id, amount_cents, date, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.PayerID, settlement.ReceiverID,
		settlement.Amount.Cents(), settlement.Date, description, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// ListSettlementsForUser retrieves all settlements the user paid or received,
// newest first.
func (s *SQLiteStore) ListSettlementsForUser(ctx context.Context, userID string) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payer_id, receiver_id, amount_cents, date, description, created_at
		 FROM settlements WHERE payer_id = ? OR receiver_id = ?
		 ORDER BY created_at DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var settlement models.Settlement
		var cents int64
		var description sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.PayerID, &settlement.ReceiverID,
			&cents, &settlement.Date, &description, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		settlement.Amount = money.FromCents(cents)
		if description.Valid {
			settlement.Description = description.String
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlements: %w", err)
	}
	return settlements, nil
}
