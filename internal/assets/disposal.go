package assets

import (
	"github.com/shopspring/decimal"

	"github.com/vesna-erp/vesna-erp/internal/ledger"
	"github.com/vesna-erp/vesna-erp/internal/money"
)

// InvoiceLine carries a sale invoice amount grouped by its target account.
type InvoiceLine struct {
	AccountCode string
	Amount      decimal.Decimal
}

// DisposalInput collects everything the composer needs. Depreciated is the
// cumulative depreciated amount, sign-normalized against the asset's value
// direction, opening-balance import included.
type DisposalInput struct {
	Asset        Asset
	Depreciated  decimal.Decimal
	InvoiceLines []InvoiceLine
	LossAccount  string
	GainAccount  string
}

// ComposeDisposalLines builds the balanced ledger lines for a disposal or
// sale: the asset account is relieved of its full original value, the
// accumulated depreciation account of the amount already depreciated, each
// invoice account records its proceeds, and the remainder lands on a gain
// or loss account chosen by its sign. Pure function; the caller persists.
func ComposeDisposalLines(in DisposalInput) []ledger.LineInput {
	asset := in.Asset
	currency := asset.Currency

	lossAccount := in.LossAccount
	if lossAccount == "" {
		lossAccount = DefaultAccountLoss
	}
	gainAccount := in.GainAccount
	if gainAccount == "" {
		gainAccount = DefaultAccountGain
	}

	// Round every input before deriving the remainder, so the emitted lines
	// and the remainder agree at minor-unit precision and the set balances.
	original := money.Round(asset.OriginalValue, currency)
	depreciated := money.Round(in.Depreciated, currency)

	lines := []ledger.LineInput{
		signedLine(asset.AccountAsset, original.Neg(), currency),
		signedLine(asset.AccountDepreciation, depreciated, currency),
	}
	invoiceTotal := decimal.Zero
	for _, inv := range in.InvoiceLines {
		amount := money.Round(inv.Amount, currency)
		if money.IsZero(amount, currency) {
			continue
		}
		lines = append(lines, signedLine(inv.AccountCode, amount, currency))
		invoiceTotal = invoiceTotal.Add(amount)
	}

	remainder := original.Sub(depreciated).Sub(invoiceTotal)
	if !money.IsZero(remainder, currency) {
		account := lossAccount
		if remainder.IsNegative() {
			account = gainAccount
		}
		lines = append(lines, signedLine(account, remainder, currency))
	}
	return lines
}

// signedLine maps a signed amount onto a debit (positive) or credit
// (negative) line.
func signedLine(account string, amount decimal.Decimal, currency string) ledger.LineInput {
	amount = money.Round(amount, currency)
	line := ledger.LineInput{
		AccountCode:    account,
		Currency:       currency,
		AmountCurrency: amount,
	}
	if amount.IsNegative() {
		line.Credit = amount.Neg()
	} else {
		line.Debit = amount
	}
	return line
}
