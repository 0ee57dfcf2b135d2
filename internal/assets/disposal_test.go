package assets

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComposeDisposalLinesLoss(t *testing.T) {
	asset := linearAsset()
	lines := ComposeDisposalLines(DisposalInput{
		Asset:        asset,
		Depreciated:  dec("3500"),
		InvoiceLines: []InvoiceLine{{AccountCode: "361", Amount: dec("2000")}},
	})

	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, line := range lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		t.Fatalf("lines unbalanced: debit %s, credit %s", debit, credit)
	}

	last := lines[len(lines)-1]
	if last.AccountCode != DefaultAccountLoss {
		t.Errorf("remainder account = %s, want %s", last.AccountCode, DefaultAccountLoss)
	}
	if !last.Debit.Equal(dec("4500")) {
		t.Errorf("loss = %s, want 4500", last.Debit)
	}
}

func TestComposeDisposalLinesGain(t *testing.T) {
	asset := linearAsset()
	lines := ComposeDisposalLines(DisposalInput{
		Asset:        asset,
		Depreciated:  dec("9000"),
		InvoiceLines: []InvoiceLine{{AccountCode: "361", Amount: dec("3000")}},
	})

	last := lines[len(lines)-1]
	if last.AccountCode != DefaultAccountGain {
		t.Errorf("remainder account = %s, want %s", last.AccountCode, DefaultAccountGain)
	}
	// 10000 - 9000 - 3000 = -2000: proceeds exceed book value.
	if !last.Credit.Equal(dec("2000")) {
		t.Errorf("gain = %s, want 2000", last.Credit)
	}
}

func TestComposeDisposalLinesFullyDepreciatedNoRemainder(t *testing.T) {
	asset := linearAsset()
	lines := ComposeDisposalLines(DisposalInput{
		Asset:       asset,
		Depreciated: dec("10000"),
	})
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (no gain/loss line)", len(lines))
	}
	if !lines[0].Credit.Equal(dec("10000")) || !lines[1].Debit.Equal(dec("10000")) {
		t.Errorf("unexpected amounts: %s / %s", lines[0].Credit, lines[1].Debit)
	}
}

func TestComposeDisposalLinesCustomAccounts(t *testing.T) {
	asset := linearAsset()
	lines := ComposeDisposalLines(DisposalInput{
		Asset:       asset,
		Depreciated: dec("4000"),
		LossAccount: "976",
	})
	last := lines[len(lines)-1]
	if last.AccountCode != "976" {
		t.Errorf("loss account = %s, want 976", last.AccountCode)
	}
}

func TestComposeDisposalLinesRoundsSubUnitInputs(t *testing.T) {
	asset := linearAsset()
	lines := ComposeDisposalLines(DisposalInput{
		Asset:        asset,
		Depreciated:  dec("2747.191"),
		InvoiceLines: []InvoiceLine{{AccountCode: "361", Amount: dec("2000.014")}},
	})

	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, line := range lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	if !debit.Equal(credit) {
		t.Fatalf("lines unbalanced: debit %s, credit %s", debit, credit)
	}

	// Remainder derives from the rounded inputs: 10000 - 2747.19 - 2000.01.
	last := lines[len(lines)-1]
	if last.AccountCode != DefaultAccountLoss {
		t.Errorf("remainder account = %s, want %s", last.AccountCode, DefaultAccountLoss)
	}
	if !last.Debit.Equal(dec("5252.80")) {
		t.Errorf("loss = %s, want 5252.80", last.Debit)
	}
}
