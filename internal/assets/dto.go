package assets

import (
	"time"

	"github.com/shopspring/decimal"
)

// createRequest is the JSON payload for creating an asset.
type createRequest struct {
	CompanyID int64  `json:"company_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=255"`
	Currency  string `json:"currency" validate:"omitempty,len=3"`

	AssetType    string `json:"asset_type" validate:"omitempty,oneof=PURCHASE SALE"`
	Method       string `json:"method" validate:"omitempty,oneof=LINEAR HALF_HALF FULL"`
	MethodNumber int    `json:"method_number" validate:"omitempty,min=1,max=1200"`
	MethodPeriod int    `json:"method_period" validate:"omitempty,min=1,max=120"`
	Prorata      string `json:"prorata" validate:"omitempty,oneof=DAILY CONSTANT NONE"`

	OriginalValue            decimal.Decimal `json:"original_value" validate:"required"`
	SalvageValue             decimal.Decimal `json:"salvage_value"`
	AlreadyDepreciatedImport decimal.Decimal `json:"already_depreciated_import"`
	Imported                 bool            `json:"imported"`

	AcquisitionDate   dateField `json:"acquisition_date" validate:"required"`
	CommissioningDate dateField `json:"commissioning_date"`

	AccountAsset        string `json:"account_asset"`
	AccountDepreciation string `json:"account_depreciation"`
	AccountExpense      string `json:"account_expense"`
	AccountTransit      string `json:"account_transit"`
}

func (r createRequest) toInput() CreateInput {
	return CreateInput{
		CompanyID:                r.CompanyID,
		Name:                     r.Name,
		Currency:                 r.Currency,
		AssetType:                AssetType(r.AssetType),
		Method:                   Method(r.Method),
		MethodNumber:             r.MethodNumber,
		MethodPeriod:             r.MethodPeriod,
		Prorata:                  ProrataType(r.Prorata),
		OriginalValue:            r.OriginalValue,
		SalvageValue:             r.SalvageValue,
		AlreadyDepreciatedImport: r.AlreadyDepreciatedImport,
		Imported:                 r.Imported,
		AcquisitionDate:          r.AcquisitionDate.Time,
		CommissioningDate:        r.CommissioningDate.Time,
		AccountAsset:             r.AccountAsset,
		AccountDepreciation:      r.AccountDepreciation,
		AccountExpense:           r.AccountExpense,
		AccountTransit:           r.AccountTransit,
	}
}

type pauseRequest struct {
	Date dateField `json:"date" validate:"required"`
}

type resumeRequest struct {
	Date          dateField        `json:"date" validate:"required"`
	ProrataDate   dateField        `json:"prorata_date"`
	MethodNumber  int              `json:"method_number" validate:"omitempty,min=1,max=1200"`
	ValueResidual *decimal.Decimal `json:"value_residual"`
}

type reevaluateRequest struct {
	Date          dateField             `json:"date" validate:"required"`
	ValueResidual *decimal.Decimal      `json:"value_residual"`
	Lines         []reevaluateLineInput `json:"lines" validate:"dive"`
}

type reevaluateLineInput struct {
	LedgerLineID int64           `json:"ledger_line_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
}

type sellRequest struct {
	Date         dateField          `json:"date" validate:"required"`
	InvoiceLines []invoiceLineInput `json:"invoice_lines" validate:"dive"`
	LossAccount  string             `json:"loss_account"`
	GainAccount  string             `json:"gain_account"`
}

type invoiceLineInput struct {
	AccountCode string          `json:"account_code" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
}

// dateField unmarshals bare "2006-01-02" dates alongside RFC3339 timestamps.
type dateField struct {
	time.Time
}

func (d *dateField) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		return nil
	}
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// assetResponse is the JSON shape of an asset.
type assetResponse struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`

	AssetType    string `json:"asset_type"`
	Method       string `json:"method"`
	MethodNumber int    `json:"method_number"`
	MethodPeriod int    `json:"method_period"`
	Prorata      string `json:"prorata"`

	OriginalValue            decimal.Decimal `json:"original_value"`
	SalvageValue             decimal.Decimal `json:"salvage_value"`
	ValueResidual            decimal.Decimal `json:"value_residual"`
	AlreadyDepreciatedImport decimal.Decimal `json:"already_depreciated_import"`
	Imported                 bool            `json:"imported"`

	AcquisitionDate   string  `json:"acquisition_date"`
	CommissioningDate string  `json:"commissioning_date"`
	ProrataDate       string  `json:"prorata_date"`
	PausedProrataDate string  `json:"paused_prorata_date,omitempty"`
	SellDate          *string `json:"sell_date,omitempty"`

	State string `json:"state"`

	AccountAsset        string `json:"account_asset"`
	AccountDepreciation string `json:"account_depreciation"`
	AccountExpense      string `json:"account_expense"`
	AccountTransit      string `json:"account_transit"`

	ParentID    *int64 `json:"parent_id,omitempty"`
	OnRunMoveID *int64 `json:"on_run_move_id,omitempty"`
	SaleMoveID  *int64 `json:"sale_move_id,omitempty"`
}

func toAssetResponse(a Asset) assetResponse {
	resp := assetResponse{
		ID:                       a.ID,
		CompanyID:                a.CompanyID,
		Name:                     a.Name,
		Currency:                 a.Currency,
		AssetType:                string(a.AssetType),
		Method:                   string(a.Method),
		MethodNumber:             a.MethodNumber,
		MethodPeriod:             a.MethodPeriod,
		Prorata:                  string(a.Prorata),
		OriginalValue:            a.OriginalValue,
		SalvageValue:             a.SalvageValue,
		ValueResidual:            a.ValueResidual,
		AlreadyDepreciatedImport: a.AlreadyDepreciatedImport,
		Imported:                 a.Imported,
		AcquisitionDate:          formatDate(a.AcquisitionDate),
		CommissioningDate:        formatDate(a.CommissioningDate),
		ProrataDate:              formatDate(a.ProrataDate),
		State:                    string(a.State),
		AccountAsset:             a.AccountAsset,
		AccountDepreciation:      a.AccountDepreciation,
		AccountExpense:           a.AccountExpense,
		AccountTransit:           a.AccountTransit,
		ParentID:                 a.ParentID,
		OnRunMoveID:              a.OnRunMoveID,
		SaleMoveID:               a.SaleMoveID,
	}
	if !a.PausedProrataDate.IsZero() {
		resp.PausedProrataDate = formatDate(a.PausedProrataDate)
	}
	if a.SellDate != nil {
		sold := formatDate(*a.SellDate)
		resp.SellDate = &sold
	}
	return resp
}

// moveResponse is the JSON shape of one depreciation entry.
type moveResponse struct {
	ID            int64           `json:"id"`
	AssetID       int64           `json:"asset_id"`
	Date          string          `json:"date"`
	BeginningDate string          `json:"beginning_date"`
	NumberDays    int             `json:"number_days"`
	Amount        decimal.Decimal `json:"amount"`
	State         string          `json:"state"`
	Revaluation   bool            `json:"revaluation"`
	LedgerMoveID  *int64          `json:"ledger_move_id,omitempty"`
}

func toMoveResponses(moves []DepreciationMove) []moveResponse {
	out := make([]moveResponse, 0, len(moves))
	for _, mv := range moves {
		out = append(out, moveResponse{
			ID:            mv.ID,
			AssetID:       mv.AssetID,
			Date:          formatDate(mv.Date),
			BeginningDate: formatDate(mv.BeginningDate),
			NumberDays:    mv.NumberDays,
			Amount:        mv.Amount,
			State:         string(mv.State),
			Revaluation:   mv.Revaluation,
			LedgerMoveID:  mv.LedgerMoveID,
		})
	}
	return out
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
