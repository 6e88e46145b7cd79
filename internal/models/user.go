// Package models defines the core domain entities of the ledger:
// users, friendships, groups, expenses with their shares, settlements,
// and notifications.
//
// Entities are plain structs; relationships are expressed with ID strings
// rather than pointers to avoid circular references. IDs and timestamps are
// assigned by the storage layer on insert.
package models

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the unique handle used to find the user (e.g. for friend
	// requests).
	Username string `json:"username"`

	// Email is the user's email address (unique). Used for login.
	Email string `json:"email"`

	// DisplayName is the human-readable name shown in balances and
	// notifications.
	DisplayName string `json:"displayName"`

	// AvatarURL is an optional profile picture URL.
	AvatarURL string `json:"avatarUrl,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password. Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}
