package assets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vesna-erp/vesna-erp/internal/money"
)

// periodInput carries everything the amount calculator needs for one period.
type periodInput struct {
	Residual        decimal.Decimal
	PeriodStart     time.Time
	PeriodEnd       time.Time
	DaysDepreciated int
	LifetimeDays    int
	Currency        string
}

// computePeriodAmount prorates the residual over one period window.
//
// The amount is the residual scaled by the period's share of the days still
// left to depreciate, clamped so it never overshoots the residual in either
// direction, and forced to close out the schedule exactly in the final
// period. Returns the day count of the window and the rounded amount.
func computePeriodAmount(in periodInput) (int, decimal.Decimal) {
	if in.LifetimeDays == 0 {
		return 0, decimal.Zero
	}
	days := scheduleDays(in.PeriodStart, in.PeriodEnd)
	daysLeft := in.LifetimeDays - in.DaysDepreciated

	var amount decimal.Decimal
	if daysLeft <= 0 {
		amount = in.Residual
	} else {
		amount = in.Residual.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(int64(daysLeft)))
	}

	// Clamp between zero and the residual, preserving the residual's sign.
	if in.Residual.IsNegative() {
		if amount.GreaterThan(decimal.Zero) {
			amount = decimal.Zero
		}
		if amount.LessThan(in.Residual) {
			amount = in.Residual
		}
	} else {
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		if amount.GreaterThan(in.Residual) {
			amount = in.Residual
		}
	}

	// Final-period correction: never overshoot and never leave a remainder.
	if in.Residual.Abs().LessThan(amount.Abs()) || in.DaysDepreciated+days >= in.LifetimeDays {
		amount = in.Residual
	}

	return days, money.Round(amount, in.Currency)
}
