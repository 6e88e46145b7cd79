// Package calculator holds the pure ledger math: turning an expense request
// into per-participant shares, and folding expenses and settlements into net
// balances. It has no storage and no state; callers load records and pass
// them in.
package calculator

import (
	"fmt"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
)

// SplitInput is the raw split request for one expense.
type SplitInput struct {
	Amount  money.Amount
	PayerID string

	// ParticipantIDs is the set of people splitting the expense. The payer is
	// added automatically if missing. Order matters for equal splits: leftover
	// cents go to the earliest non-payer participants.
	ParticipantIDs []string

	SplitType models.SplitType

	// ExactAmounts gives each participant's owed amount for unequal splits,
	// keyed by user ID. Must cover every participant and sum to Amount.
	ExactAmounts map[string]money.Amount

	// PercentsBP gives each participant's percentage in basis points
	// (3333 = 33.33%) for percentage splits. Must cover every participant
	// and sum to money.FullShareBP.
	PercentsBP map[string]int64
}

// ComputeShares turns a split request into the shares to persist. The payer's
// own share is always zero (they do not owe themselves); every other
// participant's share is what they owe the payer. The share ExpenseID is left
// empty for the storage layer to fill.
func ComputeShares(in SplitInput) ([]models.ExpenseShare, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive, got %s", in.Amount)
	}
	if in.PayerID == "" {
		return nil, fmt.Errorf("expense requires a payer")
	}

	participants := normalizeParticipants(in.PayerID, in.ParticipantIDs)
	if len(participants) < 2 {
		return nil, fmt.Errorf("expense requires at least one participant besides the payer")
	}

	var portions []money.Amount
	var err error
	switch in.SplitType {
	case models.SplitEqual:
		portions, err = in.Amount.SplitEqual(len(participants))
		if err != nil {
			return nil, err
		}
	case models.SplitUnequal:
		portions, err = exactPortions(in.Amount, participants, in.ExactAmounts)
		if err != nil {
			return nil, err
		}
	case models.SplitPercentage:
		portions, err = percentPortions(in.Amount, participants, in.PercentsBP)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown split type %q", in.SplitType)
	}

	shares := make([]models.ExpenseShare, len(participants))
	for i, userID := range participants {
		amt := portions[i]
		if userID == in.PayerID {
			amt = 0
		}
		shares[i] = models.ExpenseShare{UserID: userID, Amount: amt}
	}
	return shares, nil
}

// normalizeParticipants dedupes the participant list, preserving the given
// order, and moves the payer to the back. Equal splits hand leftover cents to
// the earliest portions, so the payer must not sit at the front: their share
// is zeroed afterwards and a remainder cent parked on it would vanish from
// the ledger.
func normalizeParticipants(payerID string, participantIDs []string) []string {
	seen := map[string]bool{payerID: true}
	out := make([]string, 0, len(participantIDs)+1)
	for _, id := range participantIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return append(out, payerID)
}

func exactPortions(total money.Amount, participants []string, amounts map[string]money.Amount) ([]money.Amount, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("unequal split requires per-participant amounts")
	}
	if len(amounts) != len(participants) {
		return nil, fmt.Errorf("unequal split has amounts for %d users, want %d participants", len(amounts), len(participants))
	}

	portions := make([]money.Amount, len(participants))
	var sum money.Amount
	for i, id := range participants {
		amt, ok := amounts[id]
		if !ok {
			return nil, fmt.Errorf("unequal split missing amount for participant %s", id)
		}
		if amt.IsNegative() {
			return nil, fmt.Errorf("unequal split amount for %s is negative", id)
		}
		portions[i] = amt
		sum = sum.Add(amt)
	}
	if sum != total {
		return nil, fmt.Errorf("unequal split amounts sum to %s, want %s", sum, total)
	}
	return portions, nil
}

func percentPortions(total money.Amount, participants []string, percents map[string]int64) ([]money.Amount, error) {
	if len(percents) == 0 {
		return nil, fmt.Errorf("percentage split requires per-participant percentages")
	}
	if len(percents) != len(participants) {
		return nil, fmt.Errorf("percentage split has percentages for %d users, want %d participants", len(percents), len(participants))
	}

	weights := make([]int64, len(participants))
	for i, id := range participants {
		bp, ok := percents[id]
		if !ok {
			return nil, fmt.Errorf("percentage split missing percentage for participant %s", id)
		}
		weights[i] = bp
	}
	return total.SplitPercent(weights)
}
