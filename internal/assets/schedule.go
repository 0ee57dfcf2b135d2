package assets

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vesna-erp/vesna-erp/internal/money"
)

// ScheduleBuildContext is the immutable per-iteration state of the schedule
// builder. Each step consumes a context and returns the next one instead of
// mutating shared accumulators.
type ScheduleBuildContext struct {
	// Residual is the working balance still to spread, including any
	// unconsumed imported opening balance.
	Residual decimal.Decimal
	// ImportRemaining is the part of the predecessor-system opening balance
	// not yet consumed by emitted periods.
	ImportRemaining decimal.Decimal
	// DaysDepreciated counts elapsed schedule days, paused gaps included.
	DaysDepreciated int
	// PeriodStart is the first day of the next period to emit.
	PeriodStart time.Time
}

// BuildSchedule produces the draft depreciation entries for an asset from
// its current position. existing carries the asset's present entries;
// resume selects the post-pause variant of the residual and day bookkeeping.
// The caller persists and posts entries; the builder never does.
func BuildSchedule(asset Asset, existing []DepreciationMove, resume bool) []DepreciationMove {
	switch asset.Method {
	case MethodHalfHalf:
		return buildHalfHalf(asset, existing)
	case MethodFull:
		// A 100% write-off behaves as a single-period linear schedule.
		asset.MethodNumber = 1
		asset.MethodPeriod = 1
	}
	return buildIterative(asset, existing, resume)
}

// buildHalfHalf emits the single 50% entry, once. The second half is posted
// at disposal time, not by the scheduler.
func buildHalfHalf(asset Asset, existing []DepreciationMove) []DepreciationMove {
	for _, mv := range existing {
		if mv.State == MoveStatePosted && !mv.Revaluation {
			return nil
		}
	}
	start := DateOnly(asset.ProrataDate)
	end := EndOfMonth(AddMonths(start, asset.MethodPeriod-1))
	amount := money.Round(asset.ValueResidual.Div(decimal.NewFromInt(2)), asset.Currency)
	if asset.AssetType == AssetTypeSale {
		amount = amount.Neg()
	}
	if amount.IsZero() {
		return nil
	}
	return []DepreciationMove{{
		AssetID:       asset.ID,
		Date:          end,
		BeginningDate: start,
		NumberDays:    scheduleDays(start, end),
		Amount:        amount,
		State:         MoveStateDraft,
	}}
}

func buildIterative(asset Asset, existing []DepreciationMove, resume bool) []DepreciationMove {
	lifetime := asset.LifetimeDays()
	if lifetime == 0 {
		return nil
	}

	ctx := newBuildContext(asset, existing, resume)
	var out []DepreciationMove
	for ctx.DaysDepreciated < lifetime {
		next, entry, emit := nextPeriod(asset, ctx, lifetime)
		if next.DaysDepreciated == ctx.DaysDepreciated {
			// Degenerate window; bail out rather than loop forever.
			break
		}
		if emit {
			out = append(out, entry)
		}
		ctx = next
	}
	return out
}

// newBuildContext derives the starting context from the asset's entries.
//
// The next period is anchored at PausedProrataDate advanced by the whole
// months of depreciation recorded since that anchor under the fixed 30-day
// convention, floored to a month start. Elapsed days are then derived from
// the anchor position relative to the prorata date, so months skipped while
// paused count as consumed and the schedule keeps its original end date.
func newBuildContext(asset Asset, existing []DepreciationMove, resume bool) ScheduleBuildContext {
	residual := asset.ValueResidual
	var hasPosted bool
	var daysSinceAnchor int

	anchor := asset.PausedProrataDate
	if anchor.IsZero() {
		anchor = asset.ProrataDate
	}
	anchor = DateOnly(anchor)

	for _, mv := range existing {
		if mv.Revaluation || mv.State == MoveStateCancelled {
			continue
		}
		if mv.State == MoveStatePosted {
			hasPosted = true
		}
		if mv.State == MoveStateDraft && resume {
			// Restart from the true remaining balance, not a stale one.
			residual = residual.Sub(mv.Amount)
		}
		counted := mv.State == MoveStatePosted || resume
		if counted && !DateOnly(mv.BeginningDate).Before(anchor) {
			daysSinceAnchor += mv.NumberDays
		}
	}

	var importRemaining decimal.Decimal
	if !hasPosted {
		// Opening balances from the predecessor system are consumed by the
		// earliest periods, not re-depreciated.
		importRemaining = asset.AlreadyDepreciatedImport
		residual = residual.Add(importRemaining)
	}

	months := int(math.Round(float64(daysSinceAnchor) / daysPerMonth))
	periodStart := StartOfMonth(AddMonths(anchor, months))
	if daysSinceAnchor == 0 {
		periodStart = anchor
	}

	return ScheduleBuildContext{
		Residual:        residual,
		ImportRemaining: importRemaining,
		DaysDepreciated: MonthsBetween(StartOfMonth(asset.ProrataDate), StartOfMonth(periodStart)) * daysPerMonth,
		PeriodStart:     periodStart,
	}
}

// nextPeriod emits one period and returns the advanced context.
func nextPeriod(asset Asset, ctx ScheduleBuildContext, lifetime int) (ScheduleBuildContext, DepreciationMove, bool) {
	periodEnd := EndOfMonth(AddMonths(StartOfMonth(ctx.PeriodStart), asset.MethodPeriod-1))

	days, gross := computePeriodAmount(periodInput{
		Residual:        ctx.Residual,
		PeriodStart:     ctx.PeriodStart,
		PeriodEnd:       periodEnd,
		DaysDepreciated: ctx.DaysDepreciated,
		LifetimeDays:    lifetime,
		Currency:        asset.Currency,
	})

	// The imported opening balance soaks up period amounts before anything
	// becomes visible in the schedule.
	take := decimal.Zero
	if ctx.ImportRemaining.GreaterThan(decimal.Zero) && gross.GreaterThan(decimal.Zero) {
		take = decimal.Min(ctx.ImportRemaining, gross)
	}
	visible := gross.Sub(take)

	next := ScheduleBuildContext{
		Residual:        ctx.Residual.Sub(gross),
		ImportRemaining: ctx.ImportRemaining.Sub(take),
		DaysDepreciated: ctx.DaysDepreciated + days,
		PeriodStart:     DateOnly(periodEnd).AddDate(0, 0, 1),
	}

	if money.IsZero(visible, asset.Currency) {
		return next, DepreciationMove{}, false
	}
	if asset.AssetType == AssetTypeSale {
		visible = visible.Neg()
	}
	entry := DepreciationMove{
		AssetID:       asset.ID,
		Date:          DateOnly(periodEnd),
		BeginningDate: DateOnly(ctx.PeriodStart),
		NumberDays:    days,
		Amount:        visible,
		State:         MoveStateDraft,
	}
	return next, entry, true
}
