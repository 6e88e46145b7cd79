package calculator

import (
	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
)

// DirectBalances folds a user's direct (group-less) expenses and settlements
// into a net balance per counterparty. Positive means the counterparty owes
// the user; negative means the user owes them.
//
// For each direct expense the user paid, every other participant's share is
// added to that participant's balance. For each direct expense someone else
// paid, the user's own share is subtracted from the payer's balance. A
// settlement the user paid adds to the receiver's balance (it pays debt down
// or builds credit); a settlement the user received subtracts.
//
// Group expenses must not be passed in; they are accounted per group by
// GroupBalance.
func DirectBalances(userID string, expenses []models.Expense, settlements []models.Settlement) map[string]money.Amount {
	balances := make(map[string]money.Amount)

	for i := range expenses {
		exp := &expenses[i]
		if !exp.IsDirect() {
			continue
		}
		if exp.PayerID == userID {
			for _, share := range exp.Shares {
				if share.UserID == userID {
					continue
				}
				balances[share.UserID] += share.Amount
			}
			continue
		}
		if share, ok := exp.ShareOf(userID); ok {
			balances[exp.PayerID] -= share
		}
	}

	for _, s := range settlements {
		switch userID {
		case s.PayerID:
			balances[s.ReceiverID] += s.Amount
		case s.ReceiverID:
			balances[s.PayerID] -= s.Amount
		}
	}

	return balances
}

// DirectBalanceBetween is the two-party view of DirectBalances: the net
// amount friendID owes userID. Satisfies
// DirectBalanceBetween(u, f, ...) == -DirectBalanceBetween(f, u, ...).
func DirectBalanceBetween(userID, friendID string, expenses []models.Expense, settlements []models.Settlement) money.Amount {
	return DirectBalances(userID, expenses, settlements)[friendID]
}

// GroupBalance computes the user's net position across the given group's
// expenses: for expenses the user paid, the sum of every other participant's
// share; for expenses someone else paid, minus the user's own share.
// Settlements are not netted here: a settlement has no group attribution in
// the ledger, so it offsets the pair's direct balance instead.
func GroupBalance(userID string, expenses []models.Expense) money.Amount {
	var balance money.Amount

	for i := range expenses {
		exp := &expenses[i]
		if exp.PayerID == userID {
			for _, share := range exp.Shares {
				if share.UserID != userID {
					balance += share.Amount
				}
			}
			continue
		}
		if share, ok := exp.ShareOf(userID); ok {
			balance -= share
		}
	}

	return balance
}
