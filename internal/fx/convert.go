// Package fx converts amounts between currencies using daily NBU-style rates.
package fx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vesna-erp/vesna-erp/internal/money"
)

// BaseCurrency is the rate table's quote currency. Every stored rate is the
// number of base-currency units per one unit of the quoted currency.
const BaseCurrency = "UAH"

// ErrRateNotFound indicates no rate exists on or before the requested date.
var ErrRateNotFound = errors.New("fx: rate not found")

// Repository loads conversion rates.
type Repository interface {
	// RateOn returns the latest rate for the currency with an effective date
	// on or before the given date, scoped to a company.
	RateOn(ctx context.Context, currency string, companyID int64, date time.Time) (decimal.Decimal, error)
}

// Service converts monetary amounts between currencies on a date.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Convert translates amount from one currency to another at the rates in
// effect on date. The result is rounded to the target currency's precision.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string, companyID int64, date time.Time) (decimal.Decimal, error) {
	if from == to {
		return money.Round(amount, to), nil
	}
	base := amount
	if from != BaseCurrency {
		rate, err := s.repo.RateOn(ctx, from, companyID, date)
		if err != nil {
			return decimal.Zero, fmt.Errorf("fx: convert %s: %w", from, err)
		}
		base = amount.Mul(rate)
	}
	if to != BaseCurrency {
		rate, err := s.repo.RateOn(ctx, to, companyID, date)
		if err != nil {
			return decimal.Zero, fmt.Errorf("fx: convert %s: %w", to, err)
		}
		if rate.IsZero() {
			return decimal.Zero, ErrRateNotFound
		}
		base = base.Div(rate)
	}
	return money.Round(base, to), nil
}
