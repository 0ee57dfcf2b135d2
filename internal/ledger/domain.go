package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vesna-erp/vesna-erp/internal/money"
)

// MoveStatus enumerates journal move lifecycle values.
type MoveStatus string

const (
	MoveStatusDraft     MoveStatus = "DRAFT"
	MoveStatusPosted    MoveStatus = "POSTED"
	MoveStatusCancelled MoveStatus = "CANCELLED"
)

// Move captures one journal entry with its posting metadata.
type Move struct {
	ID           int64
	CompanyID    int64
	Number       int64
	Journal      string
	Date         time.Time
	SourceModule string
	SourceID     uuid.UUID
	Memo         string
	Status       MoveStatus
	ReversalOfID *int64
	PostedBy     int64
	PostedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lines        []MoveLine
}

// MoveLine stores a debit or credit amount for an account, with the
// original-currency amount alongside the company-currency one.
type MoveLine struct {
	ID             int64
	MoveID         int64
	AccountCode    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Currency       string
	AmountCurrency decimal.Decimal
	ProductID      *int64
	Analytic       *string
}

// MoveInput describes a move to be created.
type MoveInput struct {
	CompanyID    int64
	Journal      string
	Date         time.Time
	Currency     string
	SourceModule string
	SourceID     uuid.UUID
	Memo         string
	PostedBy     int64
	Lines        []LineInput
}

// LineInput describes one line of a move to be created.
type LineInput struct {
	AccountCode    string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Currency       string
	AmountCurrency decimal.Decimal
	ProductID      *int64
	Analytic       *string
}

// Validate checks structural move invariants before any persistence.
func (in MoveInput) Validate() error {
	if in.CompanyID == 0 {
		return ErrCompanyRequired
	}
	if in.Date.IsZero() {
		return ErrDateRequired
	}
	if len(in.Lines) < 2 {
		return ErrTooFewLines
	}
	var debit, credit decimal.Decimal
	for _, line := range in.Lines {
		if line.AccountCode == "" {
			return ErrAccountRequired
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return ErrNegativeLine
		}
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if money.Compare(debit, credit, in.Currency) != 0 {
		return ErrUnbalanced
	}
	return nil
}

// ReverseInput describes a reversal request.
type ReverseInput struct {
	Date    time.Time
	Memo    string
	ActorID int64
}
