package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"0", 0},
		{"12", 1200},
		{"12.3", 1230},
		{"12.34", 1234},
		{"-5.05", -505},
		{".50", 50},
		{"+7.00", 700},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoError(t, err, "Parse(%q)", tc.in)
		assert.Equal(t, tc.want, got, "Parse(%q)", tc.in)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "abc", "1.234", "1..2", "1,50", "."} {
		_, err := Parse(in)
		assert.Error(t, err, "Parse(%q)", in)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 12345, -1, -99, -505} {
		a := FromCents(cents)
		parsed, err := Parse(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed, "round trip of %d cents", cents)
	}
}

func TestJSONNumberFormat(t *testing.T) {
	b, err := json.Marshal(FromCents(1500))
	require.NoError(t, err)
	assert.Equal(t, "15.00", string(b))

	var a Amount
	require.NoError(t, json.Unmarshal([]byte("15.00"), &a))
	assert.Equal(t, FromCents(1500), a)

	// Quoted strings are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`"-3.05"`), &a))
	assert.Equal(t, FromCents(-305), a)
}

func TestSplitEqualExact(t *testing.T) {
	cases := []struct {
		amount Amount
		n      int
		want   []Amount
	}{
		{FromCents(3000), 2, []Amount{1500, 1500}},
		{FromCents(9000), 3, []Amount{3000, 3000, 3000}},
		{FromCents(1000), 3, []Amount{334, 333, 333}},
		{FromCents(101), 4, []Amount{26, 25, 25, 25}},
		{FromCents(2), 3, []Amount{1, 1, 0}},
	}
	for _, tc := range cases {
		got, err := tc.amount.SplitEqual(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "SplitEqual(%s, %d)", tc.amount, tc.n)

		var sum Amount
		for _, p := range got {
			sum = sum.Add(p)
		}
		assert.Equal(t, tc.amount, sum, "portions of %s must sum exactly", tc.amount)
	}
}

func TestSplitEqualRejectsBadInput(t *testing.T) {
	_, err := FromCents(100).SplitEqual(0)
	assert.Error(t, err)
	_, err = FromCents(-100).SplitEqual(2)
	assert.Error(t, err)
}

func TestSplitPercentExact(t *testing.T) {
	// 33.33% / 33.33% / 33.34% of $100.00
	got, err := FromCents(10000).SplitPercent([]int64{3333, 3333, 3334})
	require.NoError(t, err)

	var sum Amount
	for _, p := range got {
		sum = sum.Add(p)
	}
	assert.Equal(t, FromCents(10000), sum)
	assert.Equal(t, []Amount{3333, 3333, 3334}, got)
}

func TestSplitPercentZeroWeightGetsNothing(t *testing.T) {
	// $1.01 at 0% / 50% / 50% leaves a floored cent over. It must land on a
	// positive-weight portion, never on the 0% one.
	got, err := FromCents(101).SplitPercent([]int64{0, 5000, 5000})
	require.NoError(t, err)

	assert.Equal(t, Amount(0), got[0])
	assert.Equal(t, []Amount{0, 51, 50}, got)
}

func TestSplitPercentMustSumToHundred(t *testing.T) {
	_, err := FromCents(10000).SplitPercent([]int64{5000, 4000})
	assert.Error(t, err)
	_, err = FromCents(10000).SplitPercent([]int64{5000, 6000})
	assert.Error(t, err)
}

func TestParsePercent(t *testing.T) {
	bp, err := ParsePercent("33.33")
	require.NoError(t, err)
	assert.Equal(t, int64(3333), bp)

	bp, err = ParsePercent("100")
	require.NoError(t, err)
	assert.Equal(t, int64(FullShareBP), bp)

	_, err = ParsePercent("-1")
	assert.Error(t, err)
}
