// Package notify creates persisted notifications for ledger-mutating events
// and pushes them to connected clients.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// Pusher delivers a payload to a user's live connections, if any.
// realtime.Hub implements it; tests substitute a recorder.
type Pusher interface {
	Push(userID string, payload any)
}

// Envelope is the wire shape of a pushed notification.
type Envelope struct {
	Type string               `json:"type"`
	Data *models.Notification `json:"data"`
}

// Dispatcher persists notifications and pushes them best-effort.
type Dispatcher struct {
	store  storage.Store
	pusher Pusher
}

// NewDispatcher creates a dispatcher. pusher may be nil (persist-only mode).
func NewDispatcher(store storage.Store, pusher Pusher) *Dispatcher {
	return &Dispatcher{store: store, pusher: pusher}
}

// Notify persists a notification for the user and then pushes it to their
// live connections. Persistence must succeed before any push happens, so a
// client reacting to the push always sees consistent ledger state on
// re-fetch. The push is fire-and-forget: its failure never reaches the
// caller, and an offline user simply reads the notification later.
func (d *Dispatcher) Notify(ctx context.Context, userID, notificationType, message string, payload any) error {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode notification payload: %w", err)
		}
		data = encoded
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Message: message,
		Data:    data,
	}
	if err := d.store.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	if d.pusher != nil {
		n := *notification
		go d.pusher.Push(userID, Envelope{Type: "notification", Data: &n})
	}

	slog.Debug("Notification dispatched",
		"user_id", userID,
		"type", notificationType,
		"notification_id", notification.ID,
	)
	return nil
}
