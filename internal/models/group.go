package models

// GroupType categorizes what a group is for.
type GroupType string

const (
	GroupTrip   GroupType = "trip"
	GroupHome   GroupType = "home"
	GroupCouple GroupType = "couple"
	GroupOther  GroupType = "other"
)

// Group represents a set of users who share expenses.
// Membership is a pure many-to-many join; there are no roles.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Lisbon Trip").
	Name string `json:"name"`

	// Type is trip, home, couple or other.
	Type GroupType `json:"type"`

	// CreatedBy is the ID of the user who created the group.
	CreatedBy string `json:"createdBy"`

	// MemberIDs are the IDs of the group's members, including the creator.
	MemberIDs []string `json:"memberIds"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// HasMember reports whether the user belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
