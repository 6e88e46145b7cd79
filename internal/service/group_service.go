package service

import (
	"context"
	"log/slog"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage"
)

// GroupService manages expense groups and their membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create makes a new group. The creator is always a member, whether or not
// they appear in memberIDs.
func (s *GroupService) Create(ctx context.Context, creatorID, name string, groupType models.GroupType, memberIDs []string) (*models.Group, error) {
	if name == "" {
		return nil, Validationf("group requires a name")
	}
	switch groupType {
	case models.GroupTrip, models.GroupHome, models.GroupCouple, models.GroupOther:
	case "":
		groupType = models.GroupOther
	default:
		return nil, Validationf("unknown group type %q", groupType)
	}

	members := dedupeIDs(creatorID, memberIDs)
	if err := s.checkUsersExist(ctx, members); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:      name,
		Type:      groupType,
		CreatedBy: creatorID,
		MemberIDs: members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "members", len(group.MemberIDs))
	return group, nil
}

// Get returns a group with its members. Members only.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, Permissionf("you are not a member of this group")
	}
	return group, nil
}

// List returns all groups the user belongs to.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}

// AddMembers adds existing users to a group. Only a current member may add
// people; already-present members are skipped.
func (s *GroupService) AddMembers(ctx context.Context, userID, groupID string, memberIDs []string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, Permissionf("you are not a member of this group")
	}
	if len(memberIDs) == 0 {
		return nil, Validationf("no members to add")
	}
	if err := s.checkUsersExist(ctx, memberIDs); err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMembers(ctx, groupID, memberIDs); err != nil {
		return nil, err
	}

	slog.Info("Group members added", "group_id", groupID, "added", len(memberIDs))
	return s.store.GetGroup(ctx, groupID)
}

func (s *GroupService) checkUsersExist(ctx context.Context, ids []string) error {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return NotFoundf("user %s not found", id)
		}
	}
	return nil
}

// dedupeIDs returns first plus rest with duplicates and empties removed,
// preserving order.
func dedupeIDs(first string, rest []string) []string {
	seen := map[string]bool{first: true}
	out := []string{first}
	for _, id := range rest {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
