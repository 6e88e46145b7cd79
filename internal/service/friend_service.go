package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/notify"
	"github.com/divvyhq/divvy/internal/storage"
)

// FriendService owns the friendship lifecycle. There is exactly one
// friendship record per unordered pair of users, whoever initiated it.
type FriendService struct {
	store      storage.Store
	dispatcher *notify.Dispatcher
}

// NewFriendService creates a new FriendService.
func NewFriendService(store storage.Store, dispatcher *notify.Dispatcher) *FriendService {
	return &FriendService{store: store, dispatcher: dispatcher}
}

// Request sends a friend request from the requester to the addressee.
//
// Transitions on the pair's single record:
//   - no record: a new pending request is created and the addressee notified.
//   - pending from the requester already: conflict, never two pending rows.
//   - pending from the addressee: the two requests merge into accepted, and
//     the original initiator (the addressee here) is notified.
//   - accepted: conflict.
//   - declined: re-opened as a fresh pending request from the requester.
func (s *FriendService) Request(ctx context.Context, requesterID, addresseeID string) (*models.Friendship, error) {
	if requesterID == addresseeID {
		return nil, Validationf("cannot send a friend request to yourself")
	}

	requester, err := s.store.GetUserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByID(ctx, addresseeID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetFriendshipBetween(ctx, requesterID, addresseeID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		friendship := &models.Friendship{
			RequesterID: requesterID,
			AddresseeID: addresseeID,
			Status:      models.FriendshipPending,
		}
		if err := s.store.CreateFriendship(ctx, friendship); err != nil {
			return nil, err
		}

		s.notifyFriendRequest(ctx, friendship, requester)
		slog.Info("Friend request created", "friendship_id", friendship.ID, "requester_id", requesterID)
		return friendship, nil
	}

	switch existing.Status {
	case models.FriendshipPending:
		if existing.RequesterID == requesterID {
			return nil, Conflictf("friend request already pending")
		}
		// Mutual request: the addressee had already asked us. Merge instead
		// of creating a duplicate row, and tell the original initiator.
		existing.Status = models.FriendshipAccepted
		if err := s.store.UpdateFriendship(ctx, existing); err != nil {
			return nil, err
		}
		s.notifyFriendAccepted(ctx, existing, requester)
		slog.Info("Mutual friend requests merged", "friendship_id", existing.ID)
		return existing, nil

	case models.FriendshipAccepted:
		return nil, Conflictf("already friends")

	case models.FriendshipDeclined:
		// A declined pair can be re-opened by a fresh request.
		existing.RequesterID = requesterID
		existing.AddresseeID = addresseeID
		existing.Status = models.FriendshipPending
		if err := s.store.UpdateFriendship(ctx, existing); err != nil {
			return nil, err
		}
		s.notifyFriendRequest(ctx, existing, requester)
		slog.Info("Declined friendship re-opened", "friendship_id", existing.ID, "requester_id", requesterID)
		return existing, nil
	}

	return nil, fmt.Errorf("friendship %s has unknown status %q", existing.ID, existing.Status)
}

// Accept transitions a pending request to accepted. Only the addressee may
// accept; the requester is notified on success.
func (s *FriendService) Accept(ctx context.Context, userID, friendshipID string) (*models.Friendship, error) {
	friendship, err := s.store.GetFriendship(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.AddresseeID != userID {
		return nil, Permissionf("only the request's recipient can accept it")
	}
	if friendship.Status != models.FriendshipPending {
		return nil, Conflictf("friend request is not pending")
	}

	friendship.Status = models.FriendshipAccepted
	if err := s.store.UpdateFriendship(ctx, friendship); err != nil {
		return nil, err
	}

	accepter, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.notifyFriendAccepted(ctx, friendship, accepter)
	slog.Info("Friend request accepted", "friendship_id", friendship.ID)
	return friendship, nil
}

// Decline transitions a pending request to declined. Only the addressee may
// decline. A later fresh request re-opens the pair.
func (s *FriendService) Decline(ctx context.Context, userID, friendshipID string) (*models.Friendship, error) {
	friendship, err := s.store.GetFriendship(ctx, friendshipID)
	if err != nil {
		return nil, err
	}
	if friendship.AddresseeID != userID {
		return nil, Permissionf("only the request's recipient can decline it")
	}
	if friendship.Status != models.FriendshipPending {
		return nil, Conflictf("friend request is not pending")
	}

	friendship.Status = models.FriendshipDeclined
	if err := s.store.UpdateFriendship(ctx, friendship); err != nil {
		return nil, err
	}

	slog.Info("Friend request declined", "friendship_id", friendship.ID)
	return friendship, nil
}

// ListFriends returns the user's accepted friends, sorted by display name.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*models.User, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	friendships, err := s.store.ListFriendships(ctx, userID, models.FriendshipAccepted)
	if err != nil {
		return nil, err
	}

	friendIDs := make([]string, 0, len(friendships))
	for _, f := range friendships {
		friendIDs = append(friendIDs, f.OtherUser(userID))
	}

	users, err := s.store.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	friends := make([]*models.User, 0, len(users))
	for _, id := range friendIDs {
		if user, ok := users[id]; ok {
			friends = append(friends, user)
		}
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].DisplayName < friends[j].DisplayName })
	return friends, nil
}

// ListPendingRequests returns pending requests addressed to the user.
func (s *FriendService) ListPendingRequests(ctx context.Context, userID string) ([]*models.Friendship, error) {
	friendships, err := s.store.ListFriendships(ctx, userID, models.FriendshipPending)
	if err != nil {
		return nil, err
	}

	incoming := make([]*models.Friendship, 0, len(friendships))
	for _, f := range friendships {
		if f.AddresseeID == userID {
			incoming = append(incoming, f)
		}
	}
	return incoming, nil
}

func (s *FriendService) notifyFriendRequest(ctx context.Context, friendship *models.Friendship, requester *models.User) {
	err := s.dispatcher.Notify(ctx, friendship.AddresseeID,
		models.NotificationFriendRequest,
		fmt.Sprintf("%s sent you a friend request", requester.DisplayName),
		models.FriendRequestPayload{
			FriendshipID: friendship.ID,
			ActorID:      requester.ID,
			ActorName:    requester.DisplayName,
		},
	)
	if err != nil {
		slog.Error("Failed to dispatch friend request notification", "friendship_id", friendship.ID, "error", err)
	}
}

func (s *FriendService) notifyFriendAccepted(ctx context.Context, friendship *models.Friendship, accepter *models.User) {
	// The acceptance notification goes to whoever initiated the request.
	targetID := friendship.RequesterID
	if targetID == accepter.ID {
		targetID = friendship.AddresseeID
	}

	err := s.dispatcher.Notify(ctx, targetID,
		models.NotificationFriendAccepted,
		fmt.Sprintf("%s accepted your friend request", accepter.DisplayName),
		models.FriendAcceptedPayload{
			FriendshipID: friendship.ID,
			ActorID:      accepter.ID,
			ActorName:    accepter.DisplayName,
		},
	)
	if err != nil {
		slog.Error("Failed to dispatch friend accepted notification", "friendship_id", friendship.ID, "error", err)
	}
}
