package assets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func linearAsset() Asset {
	prorata := date(2024, time.January, 1)
	return Asset{
		ID:                1,
		CompanyID:         1,
		Name:              "Lathe",
		Currency:          "UAH",
		AssetType:         AssetTypePurchase,
		Method:            MethodLinear,
		MethodNumber:      10,
		MethodPeriod:      1,
		Prorata:           ProrataDaily,
		OriginalValue:     dec("10000"),
		ValueResidual:     dec("10000"),
		AcquisitionDate:   date(2023, time.December, 10),
		CommissioningDate: date(2023, time.December, 15),
		ProrataDate:       prorata,
		PausedProrataDate: prorata,
		State:             StateDraft,
	}
}

func sumAmounts(moves []DepreciationMove) decimal.Decimal {
	total := decimal.Zero
	for _, mv := range moves {
		total = total.Add(mv.Amount)
	}
	return total
}

func sumDays(moves []DepreciationMove) int {
	var total int
	for _, mv := range moves {
		total += mv.NumberDays
	}
	return total
}

func TestBuildScheduleTenEqualPeriods(t *testing.T) {
	asset := linearAsset()
	moves := BuildSchedule(asset, nil, false)

	if len(moves) != 10 {
		t.Fatalf("got %d periods, want 10", len(moves))
	}
	for i, mv := range moves {
		if !mv.Amount.Equal(dec("1000")) {
			t.Errorf("period %d amount = %s, want 1000", i+1, mv.Amount)
		}
		if mv.NumberDays != 30 {
			t.Errorf("period %d days = %d, want 30", i+1, mv.NumberDays)
		}
		if mv.State != MoveStateDraft {
			t.Errorf("period %d state = %s, want DRAFT", i+1, mv.State)
		}
	}
	if want := date(2024, time.January, 31); !moves[0].Date.Equal(want) {
		t.Errorf("first period ends %v, want %v", moves[0].Date, want)
	}
	if want := date(2024, time.October, 31); !moves[9].Date.Equal(want) {
		t.Errorf("last period ends %v, want %v", moves[9].Date, want)
	}
}

func TestBuildScheduleSumEqualsResidual(t *testing.T) {
	asset := linearAsset()
	asset.MethodNumber = 7
	asset.ValueResidual = dec("10000.01")
	moves := BuildSchedule(asset, nil, false)

	if !sumAmounts(moves).Equal(asset.ValueResidual) {
		t.Errorf("schedule sums to %s, want %s", sumAmounts(moves), asset.ValueResidual)
	}
}

func TestBuildScheduleDayCountConservation(t *testing.T) {
	asset := linearAsset()
	moves := BuildSchedule(asset, nil, false)

	if got, want := sumDays(moves), asset.LifetimeDays(); got != want {
		t.Errorf("total days = %d, want %d", got, want)
	}
}

func TestBuildScheduleQuarterlyPeriods(t *testing.T) {
	asset := linearAsset()
	asset.MethodNumber = 4
	asset.MethodPeriod = 3
	moves := BuildSchedule(asset, nil, false)

	if len(moves) != 4 {
		t.Fatalf("got %d periods, want 4", len(moves))
	}
	for i, mv := range moves {
		if mv.NumberDays != 90 {
			t.Errorf("period %d days = %d, want 90", i+1, mv.NumberDays)
		}
		if !mv.Amount.Equal(dec("2500")) {
			t.Errorf("period %d amount = %s, want 2500", i+1, mv.Amount)
		}
	}
	if want := date(2024, time.March, 31); !moves[0].Date.Equal(want) {
		t.Errorf("first quarter ends %v, want %v", moves[0].Date, want)
	}
}

func TestBuildScheduleResumeAfterPause(t *testing.T) {
	asset := linearAsset()
	asset.State = StateOpen
	asset.ValueResidual = dec("5000")
	asset.PausedProrataDate = date(2024, time.July, 1)

	var posted []DepreciationMove
	for i := 0; i < 5; i++ {
		start := date(2024, time.January+time.Month(i), 1)
		posted = append(posted, DepreciationMove{
			AssetID:       asset.ID,
			Date:          EndOfMonth(start),
			BeginningDate: start,
			NumberDays:    30,
			Amount:        dec("1000"),
			State:         MoveStatePosted,
		})
	}

	moves := BuildSchedule(asset, posted, true)
	if len(moves) != 4 {
		t.Fatalf("got %d remaining periods, want 4", len(moves))
	}
	for i, mv := range moves {
		if !mv.Amount.Equal(dec("1250")) {
			t.Errorf("period %d amount = %s, want 1250", i+1, mv.Amount)
		}
	}
	if want := date(2024, time.July, 31); !moves[0].Date.Equal(want) {
		t.Errorf("resumed schedule starts at %v, want %v", moves[0].Date, want)
	}
	if want := date(2024, time.October, 31); !moves[3].Date.Equal(want) {
		t.Errorf("resumed schedule keeps original end %v, want %v", moves[3].Date, want)
	}
}

func TestBuildScheduleResumeSubtractsStaleDrafts(t *testing.T) {
	asset := linearAsset()
	asset.ValueResidual = dec("5000")
	asset.PausedProrataDate = date(2024, time.June, 1)

	existing := []DepreciationMove{
		{
			AssetID:       asset.ID,
			Date:          date(2024, time.June, 30),
			BeginningDate: date(2024, time.June, 1),
			NumberDays:    30,
			Amount:        dec("1000"),
			State:         MoveStateDraft,
		},
	}
	moves := BuildSchedule(asset, existing, true)
	// The stale draft's 1000 comes off the working residual and its 30 days
	// advance the anchor to July.
	if len(moves) != 4 {
		t.Fatalf("got %d periods, want 4", len(moves))
	}
	if !sumAmounts(moves).Equal(dec("4000")) {
		t.Errorf("schedule sums to %s, want 4000", sumAmounts(moves))
	}
	if want := date(2024, time.July, 1); !moves[0].BeginningDate.Equal(want) {
		t.Errorf("first period starts %v, want %v", moves[0].BeginningDate, want)
	}
}

func TestBuildScheduleImportedOpeningBalance(t *testing.T) {
	asset := linearAsset()
	asset.AlreadyDepreciatedImport = dec("2000")
	asset.ValueResidual = dec("8000")
	asset.Imported = true

	moves := BuildSchedule(asset, nil, false)

	// The first two 1000-periods are consumed by the import and never emitted.
	if len(moves) != 8 {
		t.Fatalf("got %d periods, want 8", len(moves))
	}
	if want := date(2024, time.March, 1); !moves[0].BeginningDate.Equal(want) {
		t.Errorf("first visible period starts %v, want %v", moves[0].BeginningDate, want)
	}
	if !sumAmounts(moves).Equal(asset.ValueResidual) {
		t.Errorf("visible schedule sums to %s, want %s", sumAmounts(moves), asset.ValueResidual)
	}
}

func TestBuildScheduleSaleFlipsSign(t *testing.T) {
	asset := linearAsset()
	asset.AssetType = AssetTypeSale
	moves := BuildSchedule(asset, nil, false)

	if len(moves) != 10 {
		t.Fatalf("got %d periods, want 10", len(moves))
	}
	for i, mv := range moves {
		if !mv.Amount.Equal(dec("-1000")) {
			t.Errorf("period %d amount = %s, want -1000", i+1, mv.Amount)
		}
	}
}

func TestBuildScheduleHalfHalf(t *testing.T) {
	asset := linearAsset()
	asset.Method = MethodHalfHalf
	asset.MethodPeriod = 1

	moves := BuildSchedule(asset, nil, false)
	if len(moves) != 1 {
		t.Fatalf("got %d entries, want 1", len(moves))
	}
	if !moves[0].Amount.Equal(dec("5000")) {
		t.Errorf("amount = %s, want 5000", moves[0].Amount)
	}
	if want := date(2024, time.January, 31); !moves[0].Date.Equal(want) {
		t.Errorf("entry dated %v, want %v", moves[0].Date, want)
	}

	// Idempotent: any posted non-revaluation entry suppresses a second one.
	posted := moves[0]
	posted.State = MoveStatePosted
	if again := BuildSchedule(asset, []DepreciationMove{posted}, false); len(again) != 0 {
		t.Errorf("rebuild produced %d entries, want 0", len(again))
	}
}

func TestBuildScheduleFullWriteOff(t *testing.T) {
	asset := linearAsset()
	asset.Method = MethodFull
	asset.MethodNumber = 10
	asset.MethodPeriod = 1

	moves := BuildSchedule(asset, nil, false)
	if len(moves) != 1 {
		t.Fatalf("got %d entries, want 1", len(moves))
	}
	if !moves[0].Amount.Equal(dec("10000")) {
		t.Errorf("amount = %s, want the full residual", moves[0].Amount)
	}
	if moves[0].NumberDays != 30 {
		t.Errorf("days = %d, want 30", moves[0].NumberDays)
	}
}

func TestBuildScheduleZeroLifetime(t *testing.T) {
	asset := linearAsset()
	asset.MethodNumber = 0
	if moves := BuildSchedule(asset, nil, false); len(moves) != 0 {
		t.Errorf("got %d entries for unconfigured asset, want 0", len(moves))
	}
}
