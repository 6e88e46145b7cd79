package calculator

import (
	"testing"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/money"
)

func shareAmounts(shares []models.ExpenseShare) map[string]money.Amount {
	out := make(map[string]money.Amount, len(shares))
	for _, s := range shares {
		out[s.UserID] = s.Amount
	}
	return out
}

func TestComputeShares_Equal(t *testing.T) {
	shares, err := ComputeShares(SplitInput{
		Amount:         money.FromCents(3000),
		PayerID:        "alice",
		ParticipantIDs: []string{"alice", "bob"},
		SplitType:      models.SplitEqual,
	})
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	amounts := shareAmounts(shares)
	if amounts["alice"] != 0 {
		t.Errorf("payer share = %s, want 0", amounts["alice"])
	}
	if amounts["bob"] != money.FromCents(1500) {
		t.Errorf("bob share = %s, want 15.00", amounts["bob"])
	}
}

func TestComputeShares_EqualAddsMissingPayer(t *testing.T) {
	shares, err := ComputeShares(SplitInput{
		Amount:         money.FromCents(9000),
		PayerID:        "alice",
		ParticipantIDs: []string{"bob", "carol"},
		SplitType:      models.SplitEqual,
	})
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	if len(shares) != 3 {
		t.Fatalf("expected 3 shares (payer auto-added), got %d", len(shares))
	}
	amounts := shareAmounts(shares)
	if amounts["alice"] != 0 {
		t.Errorf("payer share = %s, want 0", amounts["alice"])
	}
	if amounts["bob"] != money.FromCents(3000) || amounts["carol"] != money.FromCents(3000) {
		t.Errorf("expected 30.00 each, got bob=%s carol=%s", amounts["bob"], amounts["carol"])
	}
}

func TestComputeShares_EqualRemainderIsDeterministic(t *testing.T) {
	// 10.00 among three people does not divide evenly. The extra cent after
	// the payer's notional portion goes to the earliest non-payer participant.
	run := func() map[string]money.Amount {
		shares, err := ComputeShares(SplitInput{
			Amount:         money.FromCents(1000),
			PayerID:        "alice",
			ParticipantIDs: []string{"alice", "bob", "carol"},
			SplitType:      models.SplitEqual,
		})
		if err != nil {
			t.Fatalf("ComputeShares failed: %v", err)
		}
		return shareAmounts(shares)
	}

	first := run()
	if first["bob"] != money.FromCents(334) || first["carol"] != money.FromCents(333) {
		t.Errorf("remainder distribution wrong: bob=%s carol=%s", first["bob"], first["carol"])
	}
	for i := 0; i < 10; i++ {
		again := run()
		for user, amt := range first {
			if again[user] != amt {
				t.Fatalf("split not deterministic: %s got %s then %s", user, amt, again[user])
			}
		}
	}
}

func TestComputeShares_EqualPortionsSumExactly(t *testing.T) {
	// Before zeroing the payer, the equal division of the amount must be
	// exact: non-payer shares plus the payer's notional portion equal the
	// total, so no cent ever leaves the ledger.
	amount := money.FromCents(10001)
	participants := []string{"a", "b", "c", "d", "e", "f", "g"}

	shares, err := ComputeShares(SplitInput{
		Amount:         amount,
		PayerID:        "a",
		ParticipantIDs: participants,
		SplitType:      models.SplitEqual,
	})
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	portions, err := amount.SplitEqual(len(participants))
	if err != nil {
		t.Fatalf("SplitEqual failed: %v", err)
	}
	// The payer sits at the end of the normalized order, so their notional
	// portion is the last one.
	payerPortion := portions[len(portions)-1]
	var sum money.Amount
	for _, s := range shares {
		sum += s.Amount
	}
	if sum+payerPortion != amount {
		t.Errorf("shares sum %s + payer portion %s != %s", sum, payerPortion, amount)
	}
}

func TestComputeShares_Unequal(t *testing.T) {
	shares, err := ComputeShares(SplitInput{
		Amount:         money.FromCents(5000),
		PayerID:        "alice",
		ParticipantIDs: []string{"alice", "bob"},
		SplitType:      models.SplitUnequal,
		ExactAmounts: map[string]money.Amount{
			"alice": money.FromCents(2000),
			"bob":   money.FromCents(3000),
		},
	})
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	amounts := shareAmounts(shares)
	if amounts["alice"] != 0 {
		t.Errorf("payer share = %s, want 0", amounts["alice"])
	}
	if amounts["bob"] != money.FromCents(3000) {
		t.Errorf("bob share = %s, want 30.00", amounts["bob"])
	}
}

func TestComputeShares_UnequalMismatchRejected(t *testing.T) {
	_, err := ComputeShares(SplitInput{
		Amount:         money.FromCents(5000),
		PayerID:        "alice",
		ParticipantIDs: []string{"alice", "bob"},
		SplitType:      models.SplitUnequal,
		ExactAmounts: map[string]money.Amount{
			"alice": money.FromCents(2000),
			"bob":   money.FromCents(2000), // sums to 40.00, not 50.00
		},
	})
	if err == nil {
		t.Fatal("expected validation error for mismatched unequal split")
	}
}

func TestComputeShares_UnequalMissingParticipantRejected(t *testing.T) {
	_, err := ComputeShares(SplitInput{
		Amount:         money.FromCents(5000),
		PayerID:        "alice",
		ParticipantIDs: []string{"alice", "bob", "carol"},
		SplitType:      models.SplitUnequal,
		ExactAmounts: map[string]money.Amount{
			"alice": money.FromCents(2000),
			"bob":   money.FromCents(3000),
		},
	})
	if err == nil {
		t.Fatal("expected error when a participant has no amount")
	}
}

func TestComputeShares_Percentage(t *testing.T) {
	shares, err := ComputeShares(SplitInput{
		Amount:         money.FromCents(10000),
		PayerID:        "alice",
		ParticipantIDs: []string{"alice", "bob", "carol"},
		SplitType:      models.SplitPercentage,
		PercentsBP: map[string]int64{
			"alice": 5000,
			"bob":   3000,
			"carol": 2000,
		},
	})
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}

	amounts := shareAmounts(shares)
	if amounts["alice"] != 0 {
		t.Errorf("payer share = %s, want 0", amounts["alice"])
	}
	if amounts["bob"] != money.FromCents(3000) {
		t.Errorf("bob share = %s, want 30.00", amounts["bob"])
	}
	if amounts["carol"] != money.FromCents(2000) {
		t.Errorf("carol share = %s, want 20.00", amounts["carol"])
	}
}

func TestComputeShares_PercentageMustSumToHundred(t *testing.T) {
	_, err := ComputeShares(SplitInput{
		Amount:         money.FromCents(10000),
		PayerID:        "alice",
		ParticipantIDs: []string{"alice", "bob"},
		SplitType:      models.SplitPercentage,
		PercentsBP: map[string]int64{
			"alice": 5000,
			"bob":   4000,
		},
	})
	if err == nil {
		t.Fatal("expected validation error for percentages not summing to 100")
	}
}

func TestComputeShares_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		in   SplitInput
	}{
		{"zero amount", SplitInput{Amount: 0, PayerID: "a", ParticipantIDs: []string{"a", "b"}, SplitType: models.SplitEqual}},
		{"negative amount", SplitInput{Amount: -100, PayerID: "a", ParticipantIDs: []string{"a", "b"}, SplitType: models.SplitEqual}},
		{"no payer", SplitInput{Amount: 100, ParticipantIDs: []string{"a", "b"}, SplitType: models.SplitEqual}},
		{"payer alone", SplitInput{Amount: 100, PayerID: "a", ParticipantIDs: []string{"a"}, SplitType: models.SplitEqual}},
		{"unknown split type", SplitInput{Amount: 100, PayerID: "a", ParticipantIDs: []string{"a", "b"}, SplitType: "weird"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ComputeShares(tc.in); err == nil {
				t.Errorf("expected error for %s", tc.name)
			}
		})
	}
}
