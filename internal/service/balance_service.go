package service

import (
	"context"
	"sort"

	"github.com/divvyhq/divvy/internal/calculator"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/storage"
)

// BalanceService computes a user's net position per friend and per group.
// Nothing is cached; every call folds the ledger from scratch so a balance is
// always consistent with the expenses and settlements on record.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// FriendBalance is the user's net position with one counterparty. Positive
// means the counterparty owes the user.
type FriendBalance struct {
	UserID    string       `json:"id"`
	Name      string       `json:"name"`
	AvatarURL string       `json:"avatarUrl,omitempty"`
	Amount    money.Amount `json:"amount"`
}

// GroupBalance is the user's net position within one group.
type GroupBalance struct {
	GroupID string       `json:"id"`
	Name    string       `json:"name"`
	Amount  money.Amount `json:"amount"`
}

// BalanceSummary is the full per-friend and per-group view for one user.
type BalanceSummary struct {
	Friends []FriendBalance `json:"friendBalances"`
	Groups  []GroupBalance  `json:"groupBalances"`
}

// Balances returns the user's net position with every accepted friend (zero
// balances included) and every counterparty they share direct expenses or
// settlements with, plus their position in each group. Results are sorted by
// counterparty name, then ID.
func (s *BalanceService) Balances(ctx context.Context, userID string) (*BalanceSummary, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	friends, err := s.friendBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.groupBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BalanceSummary{Friends: friends, Groups: groups}, nil
}

// WithFriend returns the user's net position with one specific user.
func (s *BalanceService) WithFriend(ctx context.Context, userID, friendID string) (*FriendBalance, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	friend, err := s.store.GetUserByID(ctx, friendID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListDirectExpensesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FriendBalance{
		UserID:    friend.ID,
		Name:      friend.DisplayName,
		AvatarURL: friend.AvatarURL,
		Amount:    calculator.DirectBalanceBetween(userID, friendID, expenses, settlements),
	}, nil
}

func (s *BalanceService) friendBalances(ctx context.Context, userID string) ([]FriendBalance, error) {
	expenses, err := s.store.ListDirectExpensesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	balances := calculator.DirectBalances(userID, expenses, settlements)

	// Accepted friends always appear, balance or not.
	friendships, err := s.store.ListFriendships(ctx, userID, models.FriendshipAccepted)
	if err != nil {
		return nil, err
	}
	for _, f := range friendships {
		other := f.OtherUser(userID)
		if _, ok := balances[other]; !ok {
			balances[other] = 0
		}
	}

	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]FriendBalance, 0, len(balances))
	for id, amount := range balances {
		user, ok := users[id]
		if !ok {
			return nil, NotFoundf("user %s not found", id)
		}
		out = append(out, FriendBalance{
			UserID:    user.ID,
			Name:      user.DisplayName,
			AvatarURL: user.AvatarURL,
			Amount:    amount,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (s *BalanceService) groupBalances(ctx context.Context, userID string) ([]GroupBalance, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]GroupBalance, 0, len(groups))
	for _, g := range groups {
		expenses, err := s.store.ListExpensesByGroup(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupBalance{
			GroupID: g.ID,
			Name:    g.Name,
			Amount:  calculator.GroupBalance(userID, expenses),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out, nil
}
