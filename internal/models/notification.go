package models

import (
	"encoding/json"

	"github.com/divvyhq/divvy/internal/money"
)

// Notification types. Each type has exactly one payload shape below.
const (
	NotificationFriendRequest      = "friend_request"
	NotificationFriendAccepted     = "friend_accepted"
	NotificationExpenseAdded       = "expense_added"
	NotificationSettlementReceived = "settlement_received"
)

// Notification is a persisted message for one user. It is created when a
// ledger mutation concerns the user and pushed immediately if they have a
// live connection; otherwise it waits to be read.
type Notification struct {
	// ID is the unique identifier for the notification (UUID format).
	ID string `json:"id"`

	// UserID is the recipient.
	UserID string `json:"userId"`

	// Type is one of the Notification* constants.
	Type string `json:"type"`

	// Message is the human-readable text. Identity and amounts live in Data;
	// nothing is ever parsed back out of this string.
	Message string `json:"message"`

	// Read marks whether the user has seen the notification.
	Read bool `json:"read"`

	// Data is the type-specific payload, marshaled JSON.
	Data json.RawMessage `json:"data,omitempty"`

	// CreatedAt is the Unix timestamp when the notification was created.
	CreatedAt int64 `json:"createdAt"`
}

// FriendRequestPayload accompanies NotificationFriendRequest.
type FriendRequestPayload struct {
	FriendshipID string `json:"friendshipId"`
	ActorID      string `json:"actorId"`
	ActorName    string `json:"actorName"`
}

// FriendAcceptedPayload accompanies NotificationFriendAccepted.
type FriendAcceptedPayload struct {
	FriendshipID string `json:"friendshipId"`
	ActorID      string `json:"actorId"`
	ActorName    string `json:"actorName"`
}

// ExpenseAddedPayload accompanies NotificationExpenseAdded. ShareAmount is
// the recipient's own share of the expense, not the full expense amount.
type ExpenseAddedPayload struct {
	ExpenseID   string       `json:"expenseId"`
	ActorID     string       `json:"actorId"`
	ActorName   string       `json:"actorName"`
	Description string       `json:"description"`
	ShareAmount money.Amount `json:"shareAmount"`
}

// SettlementReceivedPayload accompanies NotificationSettlementReceived.
type SettlementReceivedPayload struct {
	SettlementID string       `json:"settlementId"`
	ActorID      string       `json:"actorId"`
	ActorName    string       `json:"actorName"`
	Amount       money.Amount `json:"amount"`
}
