package assets

import "github.com/shopspring/decimal"

// DepreciationPolicy bundles the behaviour that varies by asset kind.
// Selected once at the start of a lifecycle operation instead of branching
// on asset fields at every step.
type DepreciationPolicy interface {
	// ValidateConfig checks policy-specific preconditions before validation.
	ValidateConfig(asset Asset) error
	// NeedsOnRunMove reports whether validation must post the move that
	// transfers cost from the capital-investment transit account.
	NeedsOnRunMove(asset Asset) bool
	// SignFactor is the direction depreciation amounts carry against the
	// asset's value: +1 for purchases, -1 for returns/consignment sales.
	SignFactor() decimal.Decimal
}

// policyFor selects the policy for an asset.
func policyFor(asset Asset) DepreciationPolicy {
	if asset.AssetType == AssetTypePurchase {
		return uaGaapPurchasePolicy{}
	}
	return genericPolicy{}
}

// uaGaapPurchasePolicy implements the UA GAAP rules for purchased assets:
// daily proration is mandatory and originally-acquired assets get an on-run
// move at validation.
type uaGaapPurchasePolicy struct{}

func (uaGaapPurchasePolicy) ValidateConfig(asset Asset) error {
	if asset.Prorata != ProrataDaily {
		return ErrProrataMandatory
	}
	return nil
}

func (uaGaapPurchasePolicy) NeedsOnRunMove(asset Asset) bool {
	return !asset.Imported && asset.ParentID == nil
}

func (uaGaapPurchasePolicy) SignFactor() decimal.Decimal {
	return decimal.NewFromInt(1)
}

// genericPolicy is the fallback for non-purchase assets.
type genericPolicy struct{}

func (genericPolicy) ValidateConfig(asset Asset) error { return nil }

func (genericPolicy) NeedsOnRunMove(asset Asset) bool { return false }

func (genericPolicy) SignFactor() decimal.Decimal {
	return decimal.NewFromInt(-1)
}
