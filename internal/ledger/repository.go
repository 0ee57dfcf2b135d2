package ledger

import (
	"context"
	"time"
)

// Repository encapsulates DB operations for journal moves.
type Repository interface {
	GetMove(ctx context.Context, id int64) (Move, error)
	GetLine(ctx context.Context, id int64) (MoveLine, error)
	ListMoves(ctx context.Context, companyID int64, limit, offset int) ([]Move, error)
	// UserFiscalLockDate returns the company cutoff before which moves may
	// only be altered through reversal. Zero time when no lock is set.
	UserFiscalLockDate(ctx context.Context, companyID int64) (time.Time, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes operations available within a transaction.
type TxRepository interface {
	InsertMove(ctx context.Context, in MoveInput, status MoveStatus, reversalOf *int64) (Move, error)
	InsertLines(ctx context.Context, moveID int64, lines []LineInput) error
	GetMoveWithLines(ctx context.Context, id int64) (Move, error)
	UpdateMoveStatus(ctx context.Context, id int64, status MoveStatus, postedAt *time.Time) error
	DeleteMove(ctx context.Context, id int64) error
}
