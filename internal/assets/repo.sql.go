package assets

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a Postgres-backed asset repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const assetColumns = `id, company_id, name, currency, asset_type, method, method_number, method_period, prorata,
original_value, salvage_value, value_residual, already_depreciated_import, imported,
acquisition_date, commissioning_date, prorata_date, paused_prorata_date, sell_date, state,
account_asset, account_depreciation, account_expense, account_transit,
parent_id, on_run_move_id, sale_move_id, created_at, updated_at`

func scanAsset(row pgx.Row) (Asset, error) {
	var a Asset
	var pausedProrata *time.Time
	err := row.Scan(&a.ID, &a.CompanyID, &a.Name, &a.Currency, &a.AssetType, &a.Method, &a.MethodNumber, &a.MethodPeriod, &a.Prorata,
		&a.OriginalValue, &a.SalvageValue, &a.ValueResidual, &a.AlreadyDepreciatedImport, &a.Imported,
		&a.AcquisitionDate, &a.CommissioningDate, &a.ProrataDate, &pausedProrata, &a.SellDate, &a.State,
		&a.AccountAsset, &a.AccountDepreciation, &a.AccountExpense, &a.AccountTransit,
		&a.ParentID, &a.OnRunMoveID, &a.SaleMoveID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrAssetNotFound
		}
		return Asset{}, err
	}
	if pausedProrata != nil {
		a.PausedProrataDate = *pausedProrata
	}
	return a, nil
}

func (r *repository) GetAsset(ctx context.Context, id int64) (Asset, error) {
	return scanAsset(r.db.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id=$1`, id))
}

func (r *repository) ListAssets(ctx context.Context, companyID int64, state State, limit, offset int) ([]Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE company_id=$1`
	args := []any{companyID}
	if state != "" {
		query += ` AND state=$2 ORDER BY id DESC LIMIT $3 OFFSET $4`
	} else {
		query += ` ORDER BY id DESC LIMIT $2 OFFSET $3`
	}
	if state != "" {
		args = append(args, state)
	}
	args = append(args, limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

func (r *repository) ListMoves(ctx context.Context, assetID int64) ([]DepreciationMove, error) {
	return listMoves(ctx, r.db, assetID)
}

func (r *repository) ListChildren(ctx context.Context, assetID int64) ([]Asset, error) {
	rows, err := r.db.Query(ctx, `SELECT `+assetColumns+` FROM assets WHERE parent_id=$1 ORDER BY id ASC`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

func (r *repository) ListDueDraftMoves(ctx context.Context, asOf time.Time, limit int) ([]DepreciationMove, error) {
	rows, err := r.db.Query(ctx, `SELECT m.id, m.asset_id, m.date, m.beginning_date, m.number_days, m.amount, m.state, m.revaluation, m.ledger_move_id
FROM asset_depreciation_moves m JOIN assets a ON a.id = m.asset_id
WHERE m.state='DRAFT' AND m.date <= $1 AND a.state='OPEN'
ORDER BY m.date ASC, m.id ASC LIMIT $2`, asOf, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMoves(rows)
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetAssetForUpdate(ctx context.Context, id int64) (Asset, error) {
	return scanAsset(r.tx.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id=$1 FOR UPDATE`, id))
}

func (r *txRepository) InsertAsset(ctx context.Context, a Asset) (Asset, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO assets (company_id, name, currency, asset_type, method, method_number, method_period, prorata,
original_value, salvage_value, value_residual, already_depreciated_import, imported,
acquisition_date, commissioning_date, prorata_date, paused_prorata_date, sell_date, state,
account_asset, account_depreciation, account_expense, account_transit, parent_id, on_run_move_id, sale_move_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
RETURNING `+assetColumns,
		a.CompanyID, a.Name, a.Currency, a.AssetType, a.Method, a.MethodNumber, a.MethodPeriod, a.Prorata,
		a.OriginalValue, a.SalvageValue, a.ValueResidual, a.AlreadyDepreciatedImport, a.Imported,
		a.AcquisitionDate, a.CommissioningDate, a.ProrataDate, nullTime(a.PausedProrataDate), a.SellDate, a.State,
		a.AccountAsset, a.AccountDepreciation, a.AccountExpense, a.AccountTransit, a.ParentID, a.OnRunMoveID, a.SaleMoveID)
	return scanAsset(row)
}

func (r *txRepository) UpdateAsset(ctx context.Context, a Asset) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE assets SET method_number=$2, method_period=$3, value_residual=$4,
paused_prorata_date=$5, sell_date=$6, state=$7, on_run_move_id=$8, sale_move_id=$9, updated_at=NOW()
WHERE id=$1`,
		a.ID, a.MethodNumber, a.MethodPeriod, a.ValueResidual,
		nullTime(a.PausedProrataDate), a.SellDate, a.State, a.OnRunMoveID, a.SaleMoveID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *txRepository) ListMoves(ctx context.Context, assetID int64) ([]DepreciationMove, error) {
	return listMoves(ctx, r.tx, assetID)
}

func (r *txRepository) InsertMoves(ctx context.Context, moves []DepreciationMove) ([]DepreciationMove, error) {
	out := make([]DepreciationMove, 0, len(moves))
	for _, mv := range moves {
		row := r.tx.QueryRow(ctx, `INSERT INTO asset_depreciation_moves (asset_id, date, beginning_date, number_days, amount, state, revaluation, ledger_move_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`,
			mv.AssetID, mv.Date, mv.BeginningDate, mv.NumberDays, mv.Amount, mv.State, mv.Revaluation, mv.LedgerMoveID)
		if err := row.Scan(&mv.ID); err != nil {
			return nil, err
		}
		out = append(out, mv)
	}
	return out, nil
}

func (r *txRepository) UpdateMove(ctx context.Context, mv DepreciationMove) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE asset_depreciation_moves SET date=$2, number_days=$3, amount=$4, state=$5, ledger_move_id=$6 WHERE id=$1`,
		mv.ID, mv.Date, mv.NumberDays, mv.Amount, mv.State, mv.LedgerMoveID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (r *txRepository) DeleteMove(ctx context.Context, id int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM asset_depreciation_moves WHERE id=$1`, id)
	return err
}

func (r *txRepository) InsertReevaluateLine(ctx context.Context, line ReevaluateLine) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO asset_reevaluate_lines (asset_id, ledger_line_id, amount) VALUES ($1,$2,$3)`,
		line.AssetID, line.LedgerLineID, line.Amount)
	return err
}

func (r *txRepository) SumReevaluateLines(ctx context.Context, assetID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM asset_reevaluate_lines WHERE asset_id=$1`, assetID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listMoves(ctx context.Context, q queryer, assetID int64) ([]DepreciationMove, error) {
	rows, err := q.Query(ctx, `SELECT id, asset_id, date, beginning_date, number_days, amount, state, revaluation, ledger_move_id
FROM asset_depreciation_moves WHERE asset_id=$1 ORDER BY date ASC, id ASC`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMoves(rows)
}

func collectMoves(rows pgx.Rows) ([]DepreciationMove, error) {
	var out []DepreciationMove
	for rows.Next() {
		var mv DepreciationMove
		if err := rows.Scan(&mv.ID, &mv.AssetID, &mv.Date, &mv.BeginningDate, &mv.NumberDays, &mv.Amount, &mv.State, &mv.Revaluation, &mv.LedgerMoveID); err != nil {
			return nil, err
		}
		out = append(out, mv)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
