package models

import "github.com/divvyhq/divvy/internal/money"

// Settlement records a direct payment between two users that offsets an
// existing debt. Settlements reduce friend balances only; they carry no
// group attribution.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// PayerID is the user who paid (debtor settling up).
	PayerID string `json:"payerId"`

	// ReceiverID is the user who received the payment.
	ReceiverID string `json:"receiverId"`

	// Amount is the payment amount. Always positive.
	Amount money.Amount `json:"amount"`

	// Date is the Unix timestamp of the payment.
	Date int64 `json:"date"`

	// Description is an optional note.
	Description string `json:"description,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt"`
}
