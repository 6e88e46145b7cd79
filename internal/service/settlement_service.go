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

// SettlementService records settle-up payments between users. A settlement is
// only accepted against an existing debt: the payer must currently owe the
// receiver, and the amount may not exceed what is owed.
type SettlementService struct {
	store      storage.Store
	dispatcher *notify.Dispatcher
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, dispatcher *notify.Dispatcher) *SettlementService {
	return &SettlementService{store: store, dispatcher: dispatcher}
}

// CreateSettlementInput is the request to record one settlement. The payer is
// always the acting user.
type CreateSettlementInput struct {
	ReceiverID  string
	Amount      money.Amount
	Description string

	// Date is a Unix timestamp; zero means now.
	Date int64
}

// Create records a payment from the acting user to the receiver. The user's
// current debt toward the receiver is recomputed from the ledger; the payment
// must be positive and no larger than that debt.
func (s *SettlementService) Create(ctx context.Context, payerID string, in CreateSettlementInput) (*models.Settlement, error) {
	if in.ReceiverID == "" || in.ReceiverID == payerID {
		return nil, Validationf("settlement requires a counterparty other than yourself")
	}
	if !in.Amount.IsPositive() {
		return nil, Validationf("settlement amount must be positive")
	}

	payer, err := s.store.GetUserByID(ctx, payerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByID(ctx, in.ReceiverID); err != nil {
		return nil, err
	}

	owed, err := s.owedTo(ctx, payerID, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !owed.IsPositive() {
		return nil, Validationf("you do not owe this user anything")
	}
	if in.Amount > owed {
		return nil, Validationf("settlement of %s exceeds the %s owed", in.Amount, owed)
	}

	if in.Date == 0 {
		in.Date = time.Now().Unix()
	}
	settlement := &models.Settlement{
		PayerID:     payerID,
		ReceiverID:  in.ReceiverID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	err = s.dispatcher.Notify(ctx, settlement.ReceiverID,
		models.NotificationSettlementReceived,
		fmt.Sprintf("%s paid you %s", payer.DisplayName, settlement.Amount),
		models.SettlementReceivedPayload{
			SettlementID: settlement.ID,
			ActorID:      payer.ID,
			ActorName:    payer.DisplayName,
			Amount:       settlement.Amount,
		},
	)
	if err != nil {
		slog.Error("Failed to dispatch settlement notification", "settlement_id", settlement.ID, "error", err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"payer_id", settlement.PayerID,
		"receiver_id", settlement.ReceiverID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// ListWithUser returns the settlements between the acting user and one
// counterparty, newest first.
func (s *SettlementService) ListWithUser(ctx context.Context, userID, otherID string) ([]models.Settlement, error) {
	if _, err := s.store.GetUserByID(ctx, otherID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	shared := make([]models.Settlement, 0, len(settlements))
	for _, st := range settlements {
		if st.PayerID == otherID || st.ReceiverID == otherID {
			shared = append(shared, st)
		}
	}
	return shared, nil
}

// owedTo returns how much userID currently owes otherID on their direct
// ledger: the negation of the pair's net balance when that balance is
// negative, zero otherwise.
func (s *SettlementService) owedTo(ctx context.Context, userID, otherID string) (money.Amount, error) {
	expenses, err := s.store.ListDirectExpensesForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	settlements, err := s.store.ListSettlementsForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	balance := calculator.DirectBalanceBetween(userID, otherID, expenses, settlements)
	if balance.IsNegative() {
		return balance.Neg(), nil
	}
	return 0, nil
}
