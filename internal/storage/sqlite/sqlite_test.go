package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "divvy-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		DisplayName:  username,
		PasswordHash: "x",
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		user := createTestUser(t, store, "alice")
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("lookups by id, email and username agree", func(t *testing.T) {
		user := createTestUser(t, store, "bob")

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		byUsername, err := store.GetUserByUsername(ctx, "bob")
		if err != nil {
			t.Fatalf("GetUserByUsername failed: %v", err)
		}

		if byID.ID != user.ID || byEmail.ID != user.ID || byUsername.ID != user.ID {
			t.Errorf("lookups disagree: %s / %s / %s", byID.ID, byEmail.ID, byUsername.ID)
		}
	})

	t.Run("missing user returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		createTestUser(t, store, "carol")
		dup := &models.User{Username: "carol2", Email: "carol@example.com", DisplayName: "Carol", PasswordHash: "x"}
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("expected unique constraint violation for duplicate email")
		}
	})
}

func TestFriendships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	t.Run("create and fetch in both orderings", func(t *testing.T) {
		f := &models.Friendship{
			RequesterID: alice.ID,
			AddresseeID: bob.ID,
			Status:      models.FriendshipPending,
		}
		if err := store.CreateFriendship(ctx, f); err != nil {
			t.Fatalf("CreateFriendship failed: %v", err)
		}

		forward, err := store.GetFriendshipBetween(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetFriendshipBetween(alice, bob) failed: %v", err)
		}
		reverse, err := store.GetFriendshipBetween(ctx, bob.ID, alice.ID)
		if err != nil {
			t.Fatalf("GetFriendshipBetween(bob, alice) failed: %v", err)
		}
		if forward.ID != f.ID || reverse.ID != f.ID {
			t.Errorf("orderings resolved to different rows: %s / %s", forward.ID, reverse.ID)
		}
	})

	t.Run("update status", func(t *testing.T) {
		f, err := store.GetFriendshipBetween(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("GetFriendshipBetween failed: %v", err)
		}
		f.Status = models.FriendshipAccepted
		if err := store.UpdateFriendship(ctx, f); err != nil {
			t.Fatalf("UpdateFriendship failed: %v", err)
		}

		accepted, err := store.ListFriendships(ctx, bob.ID, models.FriendshipAccepted)
		if err != nil {
			t.Fatalf("ListFriendships failed: %v", err)
		}
		if len(accepted) != 1 {
			t.Errorf("expected 1 accepted friendship, got %d", len(accepted))
		}
	})
}

func TestCreateExpenseIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	t.Run("expense and shares persist together", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Dinner",
			Amount:      money.FromCents(3000),
			PayerID:     alice.ID,
			SplitType:   models.SplitEqual,
			Shares: []models.ExpenseShare{
				{UserID: alice.ID, Amount: 0},
				{UserID: bob.ID, Amount: money.FromCents(1500)},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount != money.FromCents(3000) {
			t.Errorf("Amount = %s, want 30.00", got.Amount)
		}
		if len(got.Shares) != 2 {
			t.Errorf("expected 2 shares, got %d", len(got.Shares))
		}
		for _, share := range got.Shares {
			if share.ExpenseID != expense.ID {
				t.Errorf("share not linked to expense: %s", share.ExpenseID)
			}
		}
	})

	t.Run("failed share insert rolls back the expense", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Broken",
			Amount:      money.FromCents(1000),
			PayerID:     alice.ID,
			SplitType:   models.SplitEqual,
			Shares: []models.ExpenseShare{
				{UserID: alice.ID, Amount: 0},
				{UserID: "no-such-user", Amount: money.FromCents(1000)},
			},
		}
		if err := store.CreateExpense(ctx, expense); err == nil {
			t.Fatal("expected foreign key violation")
		}

		_, err := store.GetExpense(ctx, expense.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expense should have been rolled back, got %v", err)
		}
	})

	t.Run("direct expense listing excludes group expenses", func(t *testing.T) {
		group := &models.Group{Name: "Trip", Type: models.GroupTrip, CreatedBy: alice.ID, MemberIDs: []string{alice.ID, bob.ID}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		grouped := &models.Expense{
			Description: "Hotel",
			Amount:      money.FromCents(20000),
			PayerID:     alice.ID,
			GroupID:     group.ID,
			SplitType:   models.SplitEqual,
			Shares: []models.ExpenseShare{
				{UserID: alice.ID, Amount: 0},
				{UserID: bob.ID, Amount: money.FromCents(10000)},
			},
		}
		if err := store.CreateExpense(ctx, grouped); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		direct, err := store.ListDirectExpensesForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListDirectExpensesForUser failed: %v", err)
		}
		for _, e := range direct {
			if e.GroupID != "" {
				t.Errorf("group expense %s leaked into direct listing", e.ID)
			}
		}

		byGroup, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(byGroup) != 1 || byGroup[0].ID != grouped.ID {
			t.Errorf("expected the hotel expense in group listing, got %d rows", len(byGroup))
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")
	carol := createTestUser(t, store, "carol")

	group := &models.Group{
		Name:      "Flat 4B",
		Type:      models.GroupHome,
		CreatedBy: alice.ID,
		MemberIDs: []string{alice.ID, bob.ID},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("members round-trip", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.MemberIDs) != 2 {
			t.Errorf("expected 2 members, got %d", len(got.MemberIDs))
		}
	})

	t.Run("AddGroupMembers skips existing", func(t *testing.T) {
		if err := store.AddGroupMembers(ctx, group.ID, []string{bob.ID, carol.ID}); err != nil {
			t.Fatalf("AddGroupMembers failed: %v", err)
		}
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.MemberIDs) != 3 {
			t.Errorf("expected 3 members after add, got %d", len(got.MemberIDs))
		}
	})

	t.Run("ListGroupsForUser", func(t *testing.T) {
		groups, err := store.ListGroupsForUser(ctx, carol.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 {
			t.Errorf("expected 1 group for carol, got %d", len(groups))
		}
	})
}

func TestNotifications(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")

	payload, _ := json.Marshal(models.FriendRequestPayload{ActorID: "x", ActorName: "X"})
	n := &models.Notification{
		UserID:  alice.ID,
		Type:    models.NotificationFriendRequest,
		Message: "X sent you a friend request",
		Data:    payload,
	}
	if err := store.CreateNotification(ctx, n); err != nil {
		t.Fatalf("CreateNotification failed: %v", err)
	}

	t.Run("list and payload round-trip", func(t *testing.T) {
		list, err := store.ListNotifications(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(list))
		}

		var got models.FriendRequestPayload
		if err := json.Unmarshal(list[0].Data, &got); err != nil {
			t.Fatalf("payload unmarshal failed: %v", err)
		}
		if got.ActorID != "x" {
			t.Errorf("ActorID = %s, want x", got.ActorID)
		}
	})

	t.Run("mark read", func(t *testing.T) {
		if err := store.MarkNotificationRead(ctx, n.ID); err != nil {
			t.Fatalf("MarkNotificationRead failed: %v", err)
		}
		got, err := store.GetNotification(ctx, n.ID)
		if err != nil {
			t.Fatalf("GetNotification failed: %v", err)
		}
		if !got.Read {
			t.Error("notification should be read")
		}

		if err := store.MarkNotificationRead(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown notification, got %v", err)
		}
	})
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	settlement := &models.Settlement{
		PayerID:    bob.ID,
		ReceiverID: alice.ID,
		Amount:     money.FromCents(1500),
	}
	if err := store.CreateSettlement(ctx, settlement); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	for _, userID := range []string{alice.ID, bob.ID} {
		list, err := store.ListSettlementsForUser(ctx, userID)
		if err != nil {
			t.Fatalf("ListSettlementsForUser failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected 1 settlement for %s, got %d", userID, len(list))
		}
		if list[0].Amount != money.FromCents(1500) {
			t.Errorf("Amount = %s, want 15.00", list[0].Amount)
		}
	}
}
