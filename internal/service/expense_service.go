package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/divvyhq/divvy/internal/calculator"
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/notify"
	"github.com/divvyhq/divvy/internal/storage"
)

// ExpenseService records shared costs and fans out per-participant
// notifications. The actual share math lives in the calculator package.
type ExpenseService struct {
	store      storage.Store
	dispatcher *notify.Dispatcher
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, dispatcher *notify.Dispatcher) *ExpenseService {
	return &ExpenseService{store: store, dispatcher: dispatcher}
}

// CreateExpenseInput is the request to record one expense.
type CreateExpenseInput struct {
	Description string
	Amount      money.Amount

	// Date is a Unix timestamp; zero means now.
	Date int64

	// PayerID defaults to the acting user when empty.
	PayerID string

	// GroupID attributes the expense to a group; empty means a direct
	// (friend) expense.
	GroupID string

	Category  string
	SplitType models.SplitType

	// ParticipantIDs are the users splitting the expense. The payer is added
	// automatically if missing.
	ParticipantIDs []string

	// ExactAmounts holds per-participant owed amounts for unequal splits.
	ExactAmounts map[string]money.Amount

	// PercentsBP holds per-participant percentages in basis points
	// (3333 = 33.33%) for percentage splits.
	PercentsBP map[string]int64
}

// Create validates the request, computes the shares and persists the expense
// atomically, then notifies every participant except the payer with their own
// share amount.
func (s *ExpenseService) Create(ctx context.Context, actorID string, in CreateExpenseInput) (*models.Expense, error) {
	if in.Description == "" {
		return nil, Validationf("expense requires a description")
	}
	if in.PayerID == "" {
		in.PayerID = actorID
	}
	if in.Date == 0 {
		in.Date = time.Now().Unix()
	}

	shares, err := calculator.ComputeShares(calculator.SplitInput{
		Amount:         in.Amount,
		PayerID:        in.PayerID,
		ParticipantIDs: in.ParticipantIDs,
		SplitType:      in.SplitType,
		ExactAmounts:   in.ExactAmounts,
		PercentsBP:     in.PercentsBP,
	})
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: err.Error(), Err: err}
	}

	participantIDs := make([]string, len(shares))
	for i, share := range shares {
		participantIDs[i] = share.UserID
	}

	users, err := s.store.GetUsersByIDs(ctx, participantIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range participantIDs {
		if _, ok := users[id]; !ok {
			return nil, NotFoundf("participant %s not found", id)
		}
	}
	if _, ok := users[actorID]; !ok {
		return nil, Permissionf("you must be a participant in the expense")
	}

	if in.GroupID != "" {
		group, err := s.store.GetGroup(ctx, in.GroupID)
		if err != nil {
			return nil, err
		}
		for _, id := range participantIDs {
			if !group.HasMember(id) {
				return nil, Validationf("participant %s is not a member of group %s", id, group.Name)
			}
		}
	}

	expense := &models.Expense{
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		PayerID:     in.PayerID,
		GroupID:     in.GroupID,
		Category:    in.Category,
		SplitType:   in.SplitType,
		Shares:      shares,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, expense, users)

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount,
		"participants", len(expense.Shares),
	)
	return expense, nil
}

// Get returns an expense with its shares. Only participants may view it.
func (s *ExpenseService) Get(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, ok := expense.ShareOf(userID); !ok {
		return nil, Permissionf("you are not a participant in this expense")
	}
	return expense, nil
}

// ListByGroup returns a group's expenses, newest first. Members only.
func (s *ExpenseService) ListByGroup(ctx context.Context, userID, groupID string) ([]models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, Permissionf("you are not a member of this group")
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// ListWithFriend returns the direct expenses shared between the user and one
// friend, newest first.
func (s *ExpenseService) ListWithFriend(ctx context.Context, userID, friendID string) ([]models.Expense, error) {
	if _, err := s.store.GetUserByID(ctx, friendID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListDirectExpensesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	shared := make([]models.Expense, 0, len(expenses))
	for _, exp := range expenses {
		if _, ok := exp.ShareOf(friendID); ok || exp.PayerID == friendID {
			shared = append(shared, exp)
		}
	}
	return shared, nil
}

func (s *ExpenseService) notifyParticipants(ctx context.Context, expense *models.Expense, users map[string]*models.User) {
	payer := users[expense.PayerID]
	for _, share := range expense.Shares {
		if share.UserID == expense.PayerID {
			continue
		}
		err := s.dispatcher.Notify(ctx, share.UserID,
			models.NotificationExpenseAdded,
			fmt.Sprintf("%s added %q: your share is %s", payer.DisplayName, expense.Description, share.Amount),
			models.ExpenseAddedPayload{
				ExpenseID:   expense.ID,
				ActorID:     payer.ID,
				ActorName:   payer.DisplayName,
				Description: expense.Description,
				ShareAmount: share.Amount,
			},
		)
		if err != nil {
			slog.Error("Failed to dispatch expense notification",
				"expense_id", expense.ID, "user_id", share.UserID, "error", err)
		}
	}
}
