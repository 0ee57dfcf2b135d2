package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds a Postgres-backed move repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const moveColumns = `id, company_id, number, journal, date, source_module, source_id, memo, status, reversal_of_id, posted_by, posted_at, created_at, updated_at`

func scanMove(row pgx.Row) (Move, error) {
	var m Move
	err := row.Scan(&m.ID, &m.CompanyID, &m.Number, &m.Journal, &m.Date, &m.SourceModule, &m.SourceID,
		&m.Memo, &m.Status, &m.ReversalOfID, &m.PostedBy, &m.PostedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Move{}, ErrMoveNotFound
		}
		return Move{}, err
	}
	return m, nil
}

func (r *repository) GetMove(ctx context.Context, id int64) (Move, error) {
	move, err := scanMove(r.db.QueryRow(ctx, `SELECT `+moveColumns+` FROM ledger_moves WHERE id=$1`, id))
	if err != nil {
		return Move{}, err
	}
	lines, err := loadLines(ctx, r.db, id)
	if err != nil {
		return Move{}, err
	}
	move.Lines = lines
	return move, nil
}

func (r *repository) GetLine(ctx context.Context, id int64) (MoveLine, error) {
	var line MoveLine
	err := r.db.QueryRow(ctx, `SELECT id, move_id, account_code, debit, credit, currency, amount_currency, product_id, analytic
FROM ledger_move_lines WHERE id=$1`, id).Scan(&line.ID, &line.MoveID, &line.AccountCode, &line.Debit, &line.Credit,
		&line.Currency, &line.AmountCurrency, &line.ProductID, &line.Analytic)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MoveLine{}, ErrLineNotFound
		}
		return MoveLine{}, err
	}
	return line, nil
}

func (r *repository) ListMoves(ctx context.Context, companyID int64, limit, offset int) ([]Move, error) {
	rows, err := r.db.Query(ctx, `SELECT `+moveColumns+` FROM ledger_moves WHERE company_id=$1 ORDER BY number DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var moves []Move
	for rows.Next() {
		move, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		moves = append(moves, move)
	}
	return moves, rows.Err()
}

func (r *repository) UserFiscalLockDate(ctx context.Context, companyID int64) (time.Time, error) {
	var lock *time.Time
	err := r.db.QueryRow(ctx, `SELECT fiscal_lock_date FROM company_settings WHERE company_id=$1`, companyID).Scan(&lock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	if lock == nil {
		return time.Time{}, nil
	}
	return *lock, nil
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

func (r *txRepository) InsertMove(ctx context.Context, in MoveInput, status MoveStatus, reversalOf *int64) (Move, error) {
	var postedAt any
	if status == MoveStatusPosted {
		postedAt = time.Now()
	}
	row := r.tx.QueryRow(ctx, `INSERT INTO ledger_moves (company_id, journal, date, source_module, source_id, memo, status, reversal_of_id, posted_by, posted_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING `+moveColumns,
		in.CompanyID, in.Journal, in.Date, in.SourceModule, in.SourceID, in.Memo, status, reversalOf, nullInt(in.PostedBy), postedAt)
	move, err := scanMove(row)
	if err != nil {
		if pgErr, ok := errAs(err); ok && pgErr.ConstraintName == "uq_ledger_moves_source" {
			return Move{}, ErrSourceConflict
		}
		return Move{}, err
	}
	return move, nil
}

func (r *txRepository) InsertLines(ctx context.Context, moveID int64, lines []LineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO ledger_move_lines (move_id, account_code, debit, credit, currency, amount_currency, product_id, analytic)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			moveID, line.AccountCode, line.Debit, line.Credit, line.Currency, line.AmountCurrency, line.ProductID, line.Analytic); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetMoveWithLines(ctx context.Context, id int64) (Move, error) {
	move, err := scanMove(r.tx.QueryRow(ctx, `SELECT `+moveColumns+` FROM ledger_moves WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return Move{}, err
	}
	lines, err := loadLines(ctx, r.tx, id)
	if err != nil {
		return Move{}, err
	}
	move.Lines = lines
	return move, nil
}

func (r *txRepository) UpdateMoveStatus(ctx context.Context, id int64, status MoveStatus, postedAt *time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE ledger_moves SET status=$2, posted_at=$3, updated_at=NOW() WHERE id=$1`, id, status, postedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMoveNotFound
	}
	return nil
}

func (r *txRepository) DeleteMove(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM ledger_move_lines WHERE move_id=$1`, id); err != nil {
		return err
	}
	cmd, err := r.tx.Exec(ctx, `DELETE FROM ledger_moves WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMoveNotFound
	}
	return nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadLines(ctx context.Context, q queryer, moveID int64) ([]MoveLine, error) {
	rows, err := q.Query(ctx, `SELECT id, move_id, account_code, debit, credit, currency, amount_currency, product_id, analytic
FROM ledger_move_lines WHERE move_id=$1 ORDER BY id ASC`, moveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []MoveLine
	for rows.Next() {
		var line MoveLine
		if err := rows.Scan(&line.ID, &line.MoveID, &line.AccountCode, &line.Debit, &line.Credit,
			&line.Currency, &line.AmountCurrency, &line.ProductID, &line.Analytic); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func errAs(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func nullInt(val int64) any {
	if val == 0 {
		return nil
	}
	return val
}
