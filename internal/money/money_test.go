package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound(t *testing.T) {
	cases := []struct {
		in       string
		currency string
		want     string
	}{
		{"1234.565", "UAH", "1234.57"},
		{"1234.564", "UAH", "1234.56"},
		{"-0.005", "UAH", "-0.01"},
		{"1234.5", "JPY", "1235"},
		{"10.555", "XXX", "10.56"},
	}
	for _, tc := range cases {
		got := Round(decimal.RequireFromString(tc.in), tc.currency)
		if got.String() != tc.want {
			t.Fatalf("Round(%s, %s) = %s, want %s", tc.in, tc.currency, got, tc.want)
		}
	}
}

func TestIsZeroAndCompare(t *testing.T) {
	if !IsZero(decimal.RequireFromString("0.004"), "UAH") {
		t.Fatal("0.004 UAH should round to zero")
	}
	if IsZero(decimal.RequireFromString("0.005"), "UAH") {
		t.Fatal("0.005 UAH should not round to zero")
	}
	if Compare(decimal.RequireFromString("10.001"), decimal.RequireFromString("10.004"), "UAH") != 0 {
		t.Fatal("amounts equal at minor-unit precision should compare 0")
	}
	if Compare(decimal.RequireFromString("10.01"), decimal.RequireFromString("10.00"), "UAH") != 1 {
		t.Fatal("expected 1")
	}
}
