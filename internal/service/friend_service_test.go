package service

import (
	"context"
	"testing"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/notify"
	"github.com/divvyhq/divvy/internal/storage"
	"github.com/divvyhq/divvy/internal/storage/memory"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store storage.Store, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func requireKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if got := KindOf(err); got != want {
		t.Fatalf("error kind = %v, want %v (error: %v)", got, want, err)
	}
}

func TestFriendService_Request(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewFriendService(store, notify.NewDispatcher(store, nil))

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	t.Run("creates pending request and notifies addressee", func(t *testing.T) {
		friendship, err := svc.Request(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if friendship.Status != models.FriendshipPending {
			t.Errorf("status = %s, want pending", friendship.Status)
		}

		notifications, err := store.ListNotifications(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(notifications) != 1 {
			t.Fatalf("got %d notifications, want 1", len(notifications))
		}
		if notifications[0].Type != models.NotificationFriendRequest {
			t.Errorf("notification type = %s, want friend_request", notifications[0].Type)
		}
	})

	t.Run("duplicate pending request conflicts", func(t *testing.T) {
		_, err := svc.Request(ctx, alice.ID, bob.ID)
		requireKind(t, err, KindConflict)
	})

	t.Run("self request is rejected", func(t *testing.T) {
		_, err := svc.Request(ctx, alice.ID, alice.ID)
		requireKind(t, err, KindValidation)
	})

	t.Run("unknown addressee is not found", func(t *testing.T) {
		_, err := svc.Request(ctx, alice.ID, "no-such-user")
		requireKind(t, err, KindNotFound)
	})
}

func TestFriendService_MutualRequestsMerge(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewFriendService(store, notify.NewDispatcher(store, nil))

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	if _, err := svc.Request(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	merged, err := svc.Request(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("counter request failed: %v", err)
	}
	if merged.Status != models.FriendshipAccepted {
		t.Errorf("status = %s, want accepted", merged.Status)
	}

	// Still exactly one edge for the pair.
	edge, err := store.GetFriendshipBetween(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("GetFriendshipBetween failed: %v", err)
	}
	if edge.ID != merged.ID {
		t.Errorf("pair resolved to edge %s, want %s", edge.ID, merged.ID)
	}

	// The original initiator (alice) gets the acceptance notification.
	notifications, err := store.ListNotifications(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != models.NotificationFriendAccepted {
		t.Fatalf("alice notifications = %+v, want one friend_accepted", notifications)
	}
}

func TestFriendService_AcceptDecline(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewFriendService(store, notify.NewDispatcher(store, nil))

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")
	carol := createTestUser(t, store, "carol")

	friendship, err := svc.Request(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	t.Run("only the addressee may accept", func(t *testing.T) {
		_, err := svc.Accept(ctx, alice.ID, friendship.ID)
		requireKind(t, err, KindPermission)
		_, err = svc.Accept(ctx, carol.ID, friendship.ID)
		requireKind(t, err, KindPermission)
	})

	t.Run("addressee accepts and requester is notified", func(t *testing.T) {
		accepted, err := svc.Accept(ctx, bob.ID, friendship.ID)
		if err != nil {
			t.Fatalf("Accept failed: %v", err)
		}
		if accepted.Status != models.FriendshipAccepted {
			t.Errorf("status = %s, want accepted", accepted.Status)
		}

		notifications, err := store.ListNotifications(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListNotifications failed: %v", err)
		}
		if len(notifications) != 1 || notifications[0].Type != models.NotificationFriendAccepted {
			t.Fatalf("alice notifications = %+v, want one friend_accepted", notifications)
		}
	})

	t.Run("accepting twice conflicts", func(t *testing.T) {
		_, err := svc.Accept(ctx, bob.ID, friendship.ID)
		requireKind(t, err, KindConflict)
	})

	t.Run("requesting an accepted pair conflicts", func(t *testing.T) {
		_, err := svc.Request(ctx, alice.ID, bob.ID)
		requireKind(t, err, KindConflict)
	})
}

func TestFriendService_DeclinedPairReopens(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewFriendService(store, notify.NewDispatcher(store, nil))

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	friendship, err := svc.Request(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if _, err := svc.Decline(ctx, bob.ID, friendship.ID); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}

	// Either side can re-open; here the original addressee tries again.
	reopened, err := svc.Request(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("re-request after decline failed: %v", err)
	}
	if reopened.Status != models.FriendshipPending {
		t.Errorf("status = %s, want pending", reopened.Status)
	}
	if reopened.RequesterID != bob.ID || reopened.AddresseeID != alice.ID {
		t.Errorf("re-opened edge direction = %s -> %s, want %s -> %s",
			reopened.RequesterID, reopened.AddresseeID, bob.ID, alice.ID)
	}
	if reopened.ID != friendship.ID {
		t.Errorf("re-open created a second edge %s for the pair", reopened.ID)
	}
}

func TestFriendService_ListFriends(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewFriendService(store, notify.NewDispatcher(store, nil))

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")
	carol := createTestUser(t, store, "carol")
	dave := createTestUser(t, store, "dave")

	// bob accepted, carol pending, dave declined.
	f1, _ := svc.Request(ctx, alice.ID, bob.ID)
	if _, err := svc.Accept(ctx, bob.ID, f1.ID); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if _, err := svc.Request(ctx, alice.ID, carol.ID); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	f3, _ := svc.Request(ctx, alice.ID, dave.ID)
	if _, err := svc.Decline(ctx, dave.ID, f3.ID); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}

	friends, err := svc.ListFriends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != bob.ID {
		t.Fatalf("friends = %+v, want just bob", friends)
	}

	pending, err := svc.ListPendingRequests(ctx, carol.ID)
	if err != nil {
		t.Fatalf("ListPendingRequests failed: %v", err)
	}
	if len(pending) != 1 || pending[0].RequesterID != alice.ID {
		t.Fatalf("carol pending = %+v, want one request from alice", pending)
	}
}
