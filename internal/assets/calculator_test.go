package assets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputePeriodAmount(t *testing.T) {
	cases := []struct {
		name       string
		in         periodInput
		wantDays   int
		wantAmount string
	}{
		{
			name: "straight line whole month",
			in: periodInput{
				Residual:     dec("10000"),
				PeriodStart:  date(2024, time.January, 1),
				PeriodEnd:    date(2024, time.January, 31),
				LifetimeDays: 300,
				Currency:     "UAH",
			},
			wantDays:   30,
			wantAmount: "1000",
		},
		{
			name: "partial cutoff prorates by exact days",
			in: periodInput{
				Residual:        dec("7000"),
				PeriodStart:     date(2024, time.April, 1),
				PeriodEnd:       date(2024, time.April, 15),
				DaysDepreciated: 90,
				LifetimeDays:    300,
				Currency:        "UAH",
			},
			wantDays:   15,
			wantAmount: "500",
		},
		{
			name: "zero lifetime guards division",
			in: periodInput{
				Residual:    dec("5000"),
				PeriodStart: date(2024, time.January, 1),
				PeriodEnd:   date(2024, time.January, 31),
				Currency:    "UAH",
			},
			wantDays:   0,
			wantAmount: "0",
		},
		{
			name: "final period closes out the residual",
			in: periodInput{
				Residual:        dec("1033.37"),
				PeriodStart:     date(2024, time.October, 1),
				PeriodEnd:       date(2024, time.October, 31),
				DaysDepreciated: 270,
				LifetimeDays:    300,
				Currency:        "UAH",
			},
			wantDays:   30,
			wantAmount: "1033.37",
		},
		{
			name: "elapsed lifetime falls back to full residual",
			in: periodInput{
				Residual:        dec("400"),
				PeriodStart:     date(2024, time.November, 1),
				PeriodEnd:       date(2024, time.November, 30),
				DaysDepreciated: 330,
				LifetimeDays:    300,
				Currency:        "UAH",
			},
			wantDays:   30,
			wantAmount: "400",
		},
		{
			name: "negative residual keeps its sign",
			in: periodInput{
				Residual:     dec("-9000"),
				PeriodStart:  date(2024, time.January, 1),
				PeriodEnd:    date(2024, time.January, 31),
				LifetimeDays: 90,
				Currency:     "UAH",
			},
			wantDays:   30,
			wantAmount: "-3000",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			days, amount := computePeriodAmount(tc.in)
			if days != tc.wantDays {
				t.Errorf("days = %d, want %d", days, tc.wantDays)
			}
			if !amount.Equal(dec(tc.wantAmount)) {
				t.Errorf("amount = %s, want %s", amount, tc.wantAmount)
			}
		})
	}
}

func TestComputePeriodAmountNeverOvershoots(t *testing.T) {
	days, amount := computePeriodAmount(periodInput{
		Residual:        dec("100"),
		PeriodStart:     date(2024, time.January, 1),
		PeriodEnd:       date(2024, time.June, 30),
		DaysDepreciated: 0,
		LifetimeDays:    90,
		Currency:        "UAH",
	})
	if days != 180 {
		t.Fatalf("days = %d, want 180", days)
	}
	if !amount.Equal(dec("100")) {
		t.Errorf("amount = %s, want the full residual 100", amount)
	}
}
