// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/divvyhq/divvy/internal/models"
)

// ErrNotFound is returned by lookups when the requested entity does not
// exist. Callers must surface this distinctly and never treat a missing
// entity as a zero balance.
var ErrNotFound = errors.New("not found")

// Store defines the interface for ledger storage operations. This abstraction
// allows swapping storage backends (SQLite for production, in-memory for
// tests) without changing the service layer.
type Store interface {
	// CreateUser persists a new user. The ID and CreatedAt fields are
	// populated by the store if unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if missing.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if missing.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUsername retrieves a user by username. Returns ErrNotFound if
	// missing.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. Missing users are
	// omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateFriendship persists a new friendship edge.
	CreateFriendship(ctx context.Context, friendship *models.Friendship) error

	// GetFriendship retrieves a friendship by ID. Returns ErrNotFound if
	// missing.
	GetFriendship(ctx context.Context, id string) (*models.Friendship, error)

	// GetFriendshipBetween retrieves the friendship connecting two users,
	// checking both row orderings. Returns ErrNotFound if no edge exists.
	GetFriendshipBetween(ctx context.Context, userA, userB string) (*models.Friendship, error)

	// UpdateFriendship updates the status (and direction) of an existing edge.
	UpdateFriendship(ctx context.Context, friendship *models.Friendship) error

	// ListFriendships returns all edges touching the user with the given
	// status, in either direction.
	ListFriendships(ctx context.Context, userID string, status models.FriendshipStatus) ([]*models.Friendship, error)

	// CreateGroup persists a group together with its initial members.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members. Returns ErrNotFound if
	// missing.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroupsForUser returns all groups the user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMembers adds the users to the group, skipping existing members.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// CreateExpense persists an expense and all of its shares as one atomic
	// unit; either everything is written or nothing is.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its shares. Returns ErrNotFound if
	// missing.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// ListDirectExpensesForUser returns all group-less expenses the user paid
	// or holds a share in.
	ListDirectExpensesForUser(ctx context.Context, userID string) ([]models.Expense, error)

	// ListExpensesByGroup returns all expenses of a group, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.Expense, error)

	// CreateSettlement persists a settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsForUser returns all settlements the user paid or
	// received.
	ListSettlementsForUser(ctx context.Context, userID string) ([]models.Settlement, error)

	// CreateNotification persists a notification.
	CreateNotification(ctx context.Context, notification *models.Notification) error

	// GetNotification retrieves a notification by ID. Returns ErrNotFound if
	// missing.
	GetNotification(ctx context.Context, id string) (*models.Notification, error)

	// ListNotifications returns the user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)

	// MarkNotificationRead sets the read flag on a notification.
	MarkNotificationRead(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
