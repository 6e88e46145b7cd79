package models

// FriendshipStatus is the lifecycle state of a friendship.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

// Friendship is the stored edge between two users. The row is directed
// (requester sent the request to the addressee) but the relationship is
// undirected in meaning: lookups must check both orderings, and there is at
// most one row per unordered pair.
type Friendship struct {
	// ID is the unique identifier for the friendship (UUID format).
	ID string `json:"id"`

	// RequesterID is the user who initiated the request.
	RequesterID string `json:"requesterId"`

	// AddresseeID is the user the request was sent to.
	AddresseeID string `json:"addresseeId"`

	// Status is pending, accepted or declined.
	Status FriendshipStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the request was first made.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix timestamp of the last status change.
	UpdatedAt int64 `json:"updatedAt"`
}

// Involves reports whether the friendship connects the two given users,
// in either direction.
func (f *Friendship) Involves(userA, userB string) bool {
	return (f.RequesterID == userA && f.AddresseeID == userB) ||
		(f.RequesterID == userB && f.AddresseeID == userA)
}

// OtherUser returns the counterparty of the given user on this edge.
func (f *Friendship) OtherUser(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
