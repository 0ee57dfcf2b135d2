package fx

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

// NewRepository builds a Postgres-backed rate repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) RateOn(ctx context.Context, currency string, companyID int64, date time.Time) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT rate FROM fx_rates
WHERE currency=$1 AND (company_id=$2 OR company_id IS NULL) AND rate_date <= $3
ORDER BY company_id NULLS LAST, rate_date DESC LIMIT 1`, currency, companyID, date).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrRateNotFound
		}
		return decimal.Zero, err
	}
	return rate, nil
}
