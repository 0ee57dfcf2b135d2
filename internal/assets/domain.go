package assets

import (
	"time"

	"github.com/shopspring/decimal"
)

// State enumerates asset lifecycle stages.
type State string

const (
	StateDraft     State = "DRAFT"
	StateOpen      State = "OPEN"
	StateOnHold    State = "ON_HOLD"
	StateClose     State = "CLOSE"
	StateCancelled State = "CANCELLED"
)

// Method enumerates depreciation conventions.
type Method string

const (
	// MethodLinear spreads the residual evenly over the remaining days.
	MethodLinear Method = "LINEAR"
	// MethodHalfHalf posts half the value up front and the rest at disposal.
	MethodHalfHalf Method = "HALF_HALF"
	// MethodFull depreciates the whole value in a single period.
	MethodFull Method = "FULL"
)

// AssetType distinguishes ordinary purchases from return/consignment assets,
// which depreciate with inverted sign.
type AssetType string

const (
	AssetTypePurchase AssetType = "PURCHASE"
	AssetTypeSale     AssetType = "SALE"
)

// ProrataType selects how the first period is prorated. Daily proration is
// mandatory for UA GAAP purchase assets.
type ProrataType string

const (
	ProrataDaily    ProrataType = "DAILY"
	ProrataConstant ProrataType = "CONSTANT"
	ProrataNone     ProrataType = "NONE"
)

// Default UA chart of accounts codes used when an asset does not override them.
const (
	DefaultAccountAsset        = "105" // fixed assets in service
	DefaultAccountDepreciation = "131" // accumulated wear
	DefaultAccountExpense      = "92"  // administrative expenses
	DefaultAccountTransit      = "152" // capital investment in progress
	DefaultAccountGain         = "746" // other operating income
	DefaultAccountLoss         = "977" // other expenses
)

// daysPerMonth is the fixed month length used for lifetime and whole-period
// day counts. Partial cutoff periods count exact calendar days instead.
const daysPerMonth = 30

// Asset is the central entity of the depreciation engine.
type Asset struct {
	ID        int64
	CompanyID int64
	Name      string
	Currency  string

	AssetType AssetType
	Method    Method
	// MethodNumber is the number of depreciation periods.
	MethodNumber int
	// MethodPeriod is the length of one period in months.
	MethodPeriod int
	Prorata      ProrataType

	OriginalValue            decimal.Decimal
	SalvageValue             decimal.Decimal
	ValueResidual            decimal.Decimal
	AlreadyDepreciatedImport decimal.Decimal
	// Imported marks balances carried over from a predecessor system;
	// imported assets get no on-run move.
	Imported bool

	AcquisitionDate   time.Time
	CommissioningDate time.Time
	// ProrataDate is the first day depreciation accrues, normally the first
	// of the month after commissioning.
	ProrataDate time.Time
	// PausedProrataDate anchors schedule regeneration after a pause/resume
	// cycle. Equals ProrataDate until the first resume.
	PausedProrataDate time.Time
	SellDate          *time.Time

	State State

	AccountAsset        string
	AccountDepreciation string
	AccountExpense      string
	AccountTransit      string

	// ParentID references the asset this one was spun off from during a
	// re-evaluation. Traceability only; the parent owns its children.
	ParentID    *int64
	OnRunMoveID *int64
	SaleMoveID  *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LifetimeDays returns the configured lifetime under the fixed 30-day-month
// convention. Zero when periods are not configured yet.
func (a Asset) LifetimeDays() int {
	if a.MethodNumber <= 0 || a.MethodPeriod <= 0 {
		return 0
	}
	return a.MethodNumber * a.MethodPeriod * daysPerMonth
}

// MoveState enumerates depreciation entry states.
type MoveState string

const (
	MoveStateDraft     MoveState = "DRAFT"
	MoveStatePosted    MoveState = "POSTED"
	MoveStateCancelled MoveState = "CANCELLED"
)

// DepreciationMove is one period of the schedule, owned by exactly one asset.
type DepreciationMove struct {
	ID      int64
	AssetID int64
	// Date is the period end, or an earlier cutoff for partial periods
	// caused by a pause, disposal or sale.
	Date time.Time
	// BeginningDate is the first day the period covers.
	BeginningDate time.Time
	// NumberDays is the day count of this period, the unit of proration.
	NumberDays int
	Amount     decimal.Decimal
	State      MoveState
	// Revaluation marks entries that belong to re-evaluation bookkeeping
	// and are excluded from day accumulation.
	Revaluation  bool
	LedgerMoveID *int64
}

// ReevaluateLine links a revaluation amount to the ledger line that recorded it.
type ReevaluateLine struct {
	ID           int64
	AssetID      int64
	LedgerLineID int64
	Amount       decimal.Decimal
}
