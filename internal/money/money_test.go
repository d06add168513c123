package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSanitizeRoundsHalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10", "10"},
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"19.999", "20"},
		{"0.125", "0.13"},
	}
	for _, tc := range cases {
		d, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if !d.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("Parse(%q) = %s, want %s", tc.in, d, tc.want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("not-a-number"); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
}

func TestLineTotalNoDrift(t *testing.T) {
	unit := decimal.RequireFromString("10.00")
	got := LineTotal(2, unit)
	if !got.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("LineTotal(2, 10.00) = %s, want 20.00", got)
	}

	// Repeated partial sums must stay exact.
	unit = decimal.RequireFromString("0.10")
	sum := decimal.Zero
	for i := 0; i < 100; i++ {
		sum = sum.Add(LineTotal(1, unit))
	}
	if !sum.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("100 * 0.10 = %s, want 10.00", sum)
	}
}

func TestMinAndClampZero(t *testing.T) {
	a := decimal.RequireFromString("5.00")
	b := decimal.RequireFromString("7.00")
	if !Min(a, b).Equal(a) {
		t.Fatalf("Min(5, 7) = %s", Min(a, b))
	}
	neg := decimal.RequireFromString("-3.25")
	if !ClampZero(neg).IsZero() {
		t.Fatalf("ClampZero(-3.25) = %s", ClampZero(neg))
	}
	if !ClampZero(b).Equal(b) {
		t.Fatalf("ClampZero(7.00) = %s", ClampZero(b))
	}
}
