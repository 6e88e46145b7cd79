package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

const friendshipColumns = "id, requester_id, addressee_id, status, created_at, updated_at"

func scanFriendship(row interface{ Scan(...any) error }) (*models.Friendship, error) {
	f := &models.Friendship{}
	err := row.Scan(&f.ID, &f.RequesterID, &f.AddresseeID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFriendship inserts a new friendship edge.
func (s *SQLiteStore) CreateFriendship(ctx context.Context, friendship *models.Friendship) error {
	if friendship.ID == "" {
		friendship.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if friendship.CreatedAt == 0 {
		friendship.CreatedAt = now
	}
	if friendship.UpdatedAt == 0 {
		friendship.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO friendships (`+friendshipColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		friendship.ID, friendship.RequesterID, friendship.AddresseeID,
		friendship.Status, friendship.CreatedAt, friendship.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// GetFriendship retrieves a friendship by ID.
func (s *SQLiteStore) GetFriendship(ctx context.Context, id string) (*models.Friendship, error) {
	f, err := scanFriendship(s.db.QueryRowContext(ctx,
		`SELECT `+friendshipColumns+` FROM friendships WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("friendship %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}
	return f, nil
}

// GetFriendshipBetween retrieves the single friendship edge between two users,
// regardless of who initiated it.
func (s *SQLiteStore) GetFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	f, err := scanFriendship(s.db.QueryRowContext(ctx,
		`SELECT `+friendshipColumns+` FROM friendships
		 WHERE (requester_id = ? AND addressee_id = ?)
		    OR (requester_id = ? AND addressee_id = ?)`,
		userA, userB, userB, userA))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("friendship between %s and %s: %w", userA, userB, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get friendship between users: %w", err)
	}
	return f, nil
}

// UpdateFriendship updates an existing friendship's direction and status.
func (s *SQLiteStore) UpdateFriendship(ctx context.Context, friendship *models.Friendship) error {
	friendship.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE friendships SET requester_id = ?, addressee_id = ?, status = ?, updated_at = ? WHERE id = ?`,
		friendship.RequesterID, friendship.AddresseeID, friendship.Status,
		friendship.UpdatedAt, friendship.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update friendship: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check friendship update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("friendship %s: %w", friendship.ID, storage.ErrNotFound)
	}
	return nil
}

// ListFriendships returns all edges touching the user with the given status.
func (s *SQLiteStore) ListFriendships(ctx context.Context, userID string, status models.FriendshipStatus) ([]*models.Friendship, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+friendshipColumns+` FROM friendships
		 WHERE (requester_id = ? OR addressee_id = ?) AND status = ?
		 ORDER BY created_at DESC`,
		userID, userID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*models.Friendship
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating friendships: %w", err)
	}
	return friendships, nil
}
