package assets

import "errors"

var (
	// ErrAssetNotFound indicates a missing asset.
	ErrAssetNotFound = errors.New("assets: asset not found")
	// ErrInvalidState indicates the action is not allowed in the current state.
	ErrInvalidState = errors.New("assets: invalid state transition")
	// ErrCommissioningBeforeAcquisition rejects assets commissioned before
	// they were acquired.
	ErrCommissioningBeforeAcquisition = errors.New("assets: commissioning date precedes acquisition date")
	// ErrProrataMandatory rejects UA GAAP purchase assets without daily proration.
	ErrProrataMandatory = errors.New("assets: daily prorata computation is mandatory")
	// ErrPeriodsRequired rejects assets without a configured period count.
	ErrPeriodsRequired = errors.New("assets: method number and period are required")
	// ErrValueRequired rejects assets without an original value.
	ErrValueRequired = errors.New("assets: original value is required")
	// ErrReevalExceedsResidual rejects re-evaluations above current book value.
	ErrReevalExceedsResidual = errors.New("assets: re-evaluation exceeds residual book value")
	// ErrReevalExceedsLine rejects a re-evaluate line above its ledger line value.
	ErrReevalExceedsLine = errors.New("assets: re-evaluation exceeds ledger line value")
	// ErrReevalEmpty rejects a re-evaluation without an amount.
	ErrReevalEmpty = errors.New("assets: re-evaluation amount is required")
	// ErrDateBeforeProrata rejects cutoff dates before depreciation starts.
	ErrDateBeforeProrata = errors.New("assets: date precedes the prorata date")
)
