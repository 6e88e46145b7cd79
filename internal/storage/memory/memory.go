// Package memory provides an in-memory implementation of storage.Store.
// It mirrors the SQLite store's semantics and is intended for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps.
type MemoryStore struct {
	mu sync.RWMutex

	users         map[string]*models.User
	friendships   map[string]*models.Friendship
	groups        map[string]*models.Group
	expenses      map[string]*models.Expense
	settlements   map[string]*models.Settlement
	notifications map[string]*models.Notification
}

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]*models.User),
		friendships:   make(map[string]*models.Friendship),
		groups:        make(map[string]*models.Group),
		expenses:      make(map[string]*models.Expense),
		settlements:   make(map[string]*models.Settlement),
		notifications: make(map[string]*models.Notification),
	}
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email %s already taken", user.Email)
		}
		if existing.Username == user.Username {
			return fmt.Errorf("username %s already taken", user.Username)
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	u := *user
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrNotFound)
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, storage.ErrNotFound)
}

func (s *MemoryStore) GetUsersByIDs(_ context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			u := *user
			users[id] = &u
		}
	}
	return users, nil
}

func (s *MemoryStore) CreateFriendship(_ context.Context, friendship *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.friendships {
		if existing.Involves(friendship.RequesterID, friendship.AddresseeID) {
			return fmt.Errorf("friendship between %s and %s already exists",
				friendship.RequesterID, friendship.AddresseeID)
		}
	}

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
	f := *friendship
	s.friendships[friendship.ID] = &f
	return nil
}

func (s *MemoryStore) GetFriendship(_ context.Context, id string) (*models.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	friendship, ok := s.friendships[id]
	if !ok {
		return nil, fmt.Errorf("friendship %s: %w", id, storage.ErrNotFound)
	}
	f := *friendship
	return &f, nil
}

func (s *MemoryStore) GetFriendshipBetween(_ context.Context, userA, userB string) (*models.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, friendship := range s.friendships {
		if friendship.Involves(userA, userB) {
			f := *friendship
			return &f, nil
		}
	}
	return nil, fmt.Errorf("friendship between %s and %s: %w", userA, userB, storage.ErrNotFound)
}

func (s *MemoryStore) UpdateFriendship(_ context.Context, friendship *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.friendships[friendship.ID]; !ok {
		return fmt.Errorf("friendship %s: %w", friendship.ID, storage.ErrNotFound)
	}
	friendship.UpdatedAt = time.Now().Unix()
	f := *friendship
	s.friendships[friendship.ID] = &f
	return nil
}

func (s *MemoryStore) ListFriendships(_ context.Context, userID string, status models.FriendshipStatus) ([]*models.Friendship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Friendship
	for _, friendship := range s.friendships {
		if friendship.Status != status {
			continue
		}
		if friendship.RequesterID == userID || friendship.AddresseeID == userID {
			f := *friendship
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryStore) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	g := *group
	g.MemberIDs = dedupe(group.MemberIDs)
	s.groups[group.ID] = &g
	return nil
}

func (s *MemoryStore) GetGroup(_ context.Context, id string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", id, storage.ErrNotFound)
	}
	g := *group
	g.MemberIDs = append([]string(nil), group.MemberIDs...)
	return &g, nil
}

func (s *MemoryStore) ListGroupsForUser(_ context.Context, userID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Group
	for _, group := range s.groups {
		if group.HasMember(userID) {
			g := *group
			g.MemberIDs = append([]string(nil), group.MemberIDs...)
			out = append(out, &g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryStore) AddGroupMembers(_ context.Context, groupID string, userIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	group.MemberIDs = dedupe(append(group.MemberIDs, userIDs...))
	return nil
}

func (s *MemoryStore) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	for i := range expense.Shares {
		expense.Shares[i].ExpenseID = expense.ID
	}

	e := *expense
	e.Shares = append([]models.ExpenseShare(nil), expense.Shares...)
	s.expenses[expense.ID] = &e
	return nil
}

func (s *MemoryStore) GetExpense(_ context.Context, id string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expense, ok := s.expenses[id]
	if !ok {
		return nil, fmt.Errorf("expense %s: %w", id, storage.ErrNotFound)
	}
	e := *expense
	e.Shares = append([]models.ExpenseShare(nil), expense.Shares...)
	return &e, nil
}

func (s *MemoryStore) ListDirectExpensesForUser(_ context.Context, userID string) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Expense
	for _, expense := range s.expenses {
		if !expense.IsDirect() {
			continue
		}
		_, participates := expense.ShareOf(userID)
		if expense.PayerID == userID || participates {
			e := *expense
			e.Shares = append([]models.ExpenseShare(nil), expense.Shares...)
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *MemoryStore) ListExpensesByGroup(_ context.Context, groupID string) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Expense
	for _, expense := range s.expenses {
		if expense.GroupID == groupID {
			e := *expense
			e.Shares = append([]models.ExpenseShare(nil), expense.Shares...)
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *MemoryStore) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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
	st := *settlement
	s.settlements[settlement.ID] = &st
	return nil
}

func (s *MemoryStore) ListSettlementsForUser(_ context.Context, userID string) ([]models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Settlement
	for _, settlement := range s.settlements {
		if settlement.PayerID == userID || settlement.ReceiverID == userID {
			out = append(out, *settlement)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemoryStore) CreateNotification(_ context.Context, notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt == 0 {
		notification.CreatedAt = time.Now().Unix()
	}
	n := *notification
	s.notifications[notification.ID] = &n
	return nil
}

func (s *MemoryStore) GetNotification(_ context.Context, id string) (*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notification, ok := s.notifications[id]
	if !ok {
		return nil, fmt.Errorf("notification %s: %w", id, storage.ErrNotFound)
	}
	n := *notification
	return &n, nil
}

func (s *MemoryStore) ListNotifications(_ context.Context, userID string) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Notification
	for _, notification := range s.notifications {
		if notification.UserID == userID {
			n := *notification
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) MarkNotificationRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification, ok := s.notifications[id]
	if !ok {
		return fmt.Errorf("notification %s: %w", id, storage.ErrNotFound)
	}
	notification.Read = true
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
