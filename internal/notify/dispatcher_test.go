package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage/memory"
)

type push struct {
	userID  string
	payload any
}

// recorderPusher records pushes on a channel so tests can wait for the
// dispatch goroutine.
type recorderPusher struct {
	pushes chan push
}

func newRecorderPusher() *recorderPusher {
	return &recorderPusher{pushes: make(chan push, 8)}
}

func (r *recorderPusher) Push(userID string, payload any) {
	r.pushes <- push{userID: userID, payload: payload}
}

func (r *recorderPusher) wait(t *testing.T) push {
	t.Helper()
	select {
	case p := <-r.pushes:
		return p
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for push")
		return push{}
	}
}

func TestDispatcher_PersistsThenPushes(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	defer store.Close()

	pusher := newRecorderPusher()
	dispatcher := NewDispatcher(store, pusher)

	payload := models.FriendRequestPayload{FriendshipID: "f1", ActorID: "u2", ActorName: "Bob"}
	err := dispatcher.Notify(ctx, "u1", models.NotificationFriendRequest, "Bob sent you a friend request", payload)
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	// Once Notify returns the notification is durable, push or no push.
	persisted, err := store.ListNotifications(ctx, "u1")
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("got %d persisted notifications, want 1", len(persisted))
	}
	n := persisted[0]
	if n.Type != models.NotificationFriendRequest || n.Read {
		t.Errorf("persisted notification = %+v, want unread friend_request", n)
	}

	var decoded models.FriendRequestPayload
	if err := json.Unmarshal(n.Data, &decoded); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if decoded != payload {
		t.Errorf("payload = %+v, want %+v", decoded, payload)
	}

	p := pusher.wait(t)
	if p.userID != "u1" {
		t.Errorf("pushed to %s, want u1", p.userID)
	}
	envelope, ok := p.payload.(Envelope)
	if !ok {
		t.Fatalf("pushed payload has type %T, want Envelope", p.payload)
	}
	if envelope.Type != "notification" {
		t.Errorf("envelope type = %s, want notification", envelope.Type)
	}
	if envelope.Data == nil || envelope.Data.ID != n.ID {
		t.Errorf("envelope carries notification %+v, want the persisted one", envelope.Data)
	}
}

func TestDispatcher_NilPusherPersistsOnly(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	defer store.Close()

	dispatcher := NewDispatcher(store, nil)
	if err := dispatcher.Notify(ctx, "u1", models.NotificationExpenseAdded, "Dinner added", nil); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	persisted, err := store.ListNotifications(ctx, "u1")
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("got %d persisted notifications, want 1", len(persisted))
	}
}

func TestDispatcher_UnencodablePayloadFailsBeforePersist(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	defer store.Close()

	dispatcher := NewDispatcher(store, nil)
	err := dispatcher.Notify(ctx, "u1", models.NotificationExpenseAdded, "bad", func() {})
	if err == nil {
		t.Fatal("expected an encoding error")
	}

	persisted, _ := store.ListNotifications(ctx, "u1")
	if len(persisted) != 0 {
		t.Errorf("got %d persisted notifications after failed encode, want 0", len(persisted))
	}
}
