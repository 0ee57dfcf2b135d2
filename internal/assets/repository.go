package assets

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository encapsulates DB operations for assets and their schedules.
type Repository interface {
	GetAsset(ctx context.Context, id int64) (Asset, error)
	ListAssets(ctx context.Context, companyID int64, state State, limit, offset int) ([]Asset, error)
	ListMoves(ctx context.Context, assetID int64) ([]DepreciationMove, error)
	ListChildren(ctx context.Context, assetID int64) ([]Asset, error)
	// ListDueDraftMoves returns draft entries of running assets whose date
	// has arrived, for the batch posting job.
	ListDueDraftMoves(ctx context.Context, asOf time.Time, limit int) ([]DepreciationMove, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes operations available within a transaction. Lifecycle
// calls always lock the asset row first; the host serializes concurrent
// writers that way.
type TxRepository interface {
	GetAssetForUpdate(ctx context.Context, id int64) (Asset, error)
	InsertAsset(ctx context.Context, asset Asset) (Asset, error)
	UpdateAsset(ctx context.Context, asset Asset) error
	ListMoves(ctx context.Context, assetID int64) ([]DepreciationMove, error)
	InsertMoves(ctx context.Context, moves []DepreciationMove) ([]DepreciationMove, error)
	UpdateMove(ctx context.Context, move DepreciationMove) error
	DeleteMove(ctx context.Context, id int64) error
	InsertReevaluateLine(ctx context.Context, line ReevaluateLine) error
	SumReevaluateLines(ctx context.Context, assetID int64) (decimal.Decimal, error)
}
