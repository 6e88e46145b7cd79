package models

import "github.com/divvyhq/divvy/internal/money"

// SplitType determines how an expense is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitUnequal    SplitType = "unequal"
	SplitPercentage SplitType = "percentage"
)

// Expense is a shared cost paid by one user and owed by its participants.
// A GroupID of "" means a direct (friend) expense.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is what the expense was for.
	Description string `json:"description"`

	// Amount is the full expense amount.
	Amount money.Amount `json:"amount"`

	// Date is the Unix timestamp of when the expense occurred.
	Date int64 `json:"date"`

	// PayerID is the user who paid the full amount up front.
	PayerID string `json:"payerId"`

	// GroupID links the expense to a group; empty for direct expenses.
	GroupID string `json:"groupId,omitempty"`

	// Category is a free-form tag ("food", "rent", ...).
	Category string `json:"category,omitempty"`

	// SplitType is equal, unequal or percentage.
	SplitType SplitType `json:"splitType"`

	// Shares are the per-participant owed amounts. The payer always appears
	// with a zero share; every other participant's share is what they owe
	// the payer.
	Shares []ExpenseShare `json:"shares"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// ExpenseShare is one participant's portion of an expense.
type ExpenseShare struct {
	// ExpenseID is the owning expense.
	ExpenseID string `json:"expenseId"`

	// UserID is the participant.
	UserID string `json:"userId"`

	// Amount is what this participant owes the payer. Zero for the payer.
	Amount money.Amount `json:"amount"`

	// Paid marks the share as settled outside the ledger (informational).
	Paid bool `json:"paid"`
}

// IsDirect reports whether the expense is a friend expense (no group).
func (e *Expense) IsDirect() bool {
	return e.GroupID == ""
}

// ShareOf returns the share amount recorded for the given participant and
// whether the user participates in the expense at all.
func (e *Expense) ShareOf(userID string) (money.Amount, bool) {
	for _, s := range e.Shares {
		if s.UserID == userID {
			return s.Amount, true
		}
	}
	return 0, false
}
