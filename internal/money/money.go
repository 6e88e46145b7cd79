// Package money provides fixed-point monetary amounts in integer cents.
//
// All ledger arithmetic happens on int64 minor units so that summing many
// shares can never drift by a penny. Amounts marshal to JSON as plain
// two-decimal numbers (e.g. 15.00).
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in cents (minor units).
type Amount int64

// FromCents wraps a raw cent count.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount { return a + b }

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount { return a - b }

// Neg returns -a.
func (a Amount) Neg() Amount { return -a }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a == 0 }

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative reports whether the amount is strictly less than zero.
func (a Amount) IsNegative() bool { return a < 0 }

// Abs returns the magnitude of the amount.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// String formats the amount as a decimal with exactly two places, e.g. "-3.05".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Parse converts a decimal string like "12.3", "12.34" or "-5" into an Amount.
// More than two fractional digits is an error; cents are never silently
// truncated.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}

	var units int64
	if whole != "" {
		u, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed amount %q: %w", s, err)
		}
		units = u
	}

	var cents int64
	if frac != "" {
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed amount %q: %w", s, err)
		}
		if len(frac) == 1 {
			c *= 10
		}
		cents = c
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Amount(total), nil
}

// MarshalJSON emits the amount as an exact two-decimal JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SplitEqual divides the amount into n portions that sum to it exactly.
// Each portion is the floor of amount/n; the leftover cents are handed out
// one per portion starting from index 0, so the assignment is deterministic
// for a given portion order.
func (a Amount) SplitEqual(n int) ([]Amount, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot split among %d portions", n)
	}
	if a < 0 {
		return nil, fmt.Errorf("cannot split negative amount %s", a)
	}

	base := int64(a) / int64(n)
	remainder := int64(a) % int64(n)

	portions := make([]Amount, n)
	for i := range portions {
		portions[i] = Amount(base)
		if int64(i) < remainder {
			portions[i]++
		}
	}
	return portions, nil
}

// Basis points per whole (100%).
const FullShareBP = 10000

// SplitPercent divides the amount by basis-point weights (e.g. 3333 = 33.33%).
// Weights must sum to FullShareBP. Each portion is floored, then the leftover
// cents are distributed one per positive-weight portion from index 0 so the
// result sums to the amount exactly. A zero-weight portion always stays zero.
func (a Amount) SplitPercent(weightsBP []int64) ([]Amount, error) {
	if len(weightsBP) == 0 {
		return nil, fmt.Errorf("no percentage weights given")
	}
	if a < 0 {
		return nil, fmt.Errorf("cannot split negative amount %s", a)
	}

	var sum int64
	for _, w := range weightsBP {
		if w < 0 {
			return nil, fmt.Errorf("negative percentage weight %d", w)
		}
		sum += w
	}
	if sum != FullShareBP {
		return nil, fmt.Errorf("percentages sum to %s%%, want 100%%", Amount(sum).String())
	}

	portions := make([]Amount, len(weightsBP))
	var allocated int64
	for i, w := range weightsBP {
		p := int64(a) * w / FullShareBP
		portions[i] = Amount(p)
		allocated += p
	}
	for i := 0; allocated < int64(a); i = (i + 1) % len(portions) {
		if weightsBP[i] == 0 {
			continue
		}
		portions[i]++
		allocated++
	}
	return portions, nil
}

// ParsePercent converts a percentage string like "33.33" into basis points.
func ParsePercent(s string) (int64, error) {
	amt, err := Parse(s)
	if err != nil {
		return 0, fmt.Errorf("malformed percentage %q: %w", s, err)
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative percentage %q", s)
	}
	return int64(amt), nil
}
