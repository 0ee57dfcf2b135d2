package ledger

import "errors"

var (
	// ErrMoveNotFound indicates a missing journal move.
	ErrMoveNotFound = errors.New("ledger: move not found")
	// ErrLineNotFound indicates a missing journal move line.
	ErrLineNotFound = errors.New("ledger: move line not found")
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = errors.New("ledger: move lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("ledger: move requires at least two lines")
	// ErrNegativeLine indicates a negative debit or credit.
	ErrNegativeLine = errors.New("ledger: line amounts must be non-negative")
	// ErrAccountRequired indicates a line without an account code.
	ErrAccountRequired = errors.New("ledger: line account code required")
	// ErrCompanyRequired indicates a move without a company.
	ErrCompanyRequired = errors.New("ledger: company required")
	// ErrDateRequired indicates a move without a date.
	ErrDateRequired = errors.New("ledger: date required")
	// ErrInvalidStatus indicates an action the current status forbids.
	ErrInvalidStatus = errors.New("ledger: invalid status transition")
	// ErrPostedImmutable indicates an attempt to unlink a posted move.
	// Posted moves may only change through formal reversal.
	ErrPostedImmutable = errors.New("ledger: posted move can only be reversed")
	// ErrLockedPeriod indicates a write dated on or before the fiscal lock date.
	ErrLockedPeriod = errors.New("ledger: date is inside the locked fiscal period")
	// ErrSourceConflict indicates a move already exists for the source ref.
	ErrSourceConflict = errors.New("ledger: source already linked to a move")
)
