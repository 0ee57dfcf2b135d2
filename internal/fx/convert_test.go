package fx

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryRates struct {
	rates map[string]decimal.Decimal
}

func (m *memoryRates) RateOn(ctx context.Context, currency string, companyID int64, date time.Time) (decimal.Decimal, error) {
	rate, ok := m.rates[currency]
	if !ok {
		return decimal.Zero, ErrRateNotFound
	}
	return rate, nil
}

func TestConvertSameCurrency(t *testing.T) {
	svc := NewService(&memoryRates{})
	got, err := svc.Convert(context.Background(), decimal.RequireFromString("100.005"), "UAH", "UAH", 1, time.Now())
	require.NoError(t, err)
	require.Equal(t, "100.01", got.String())
}

func TestConvertForeignToBase(t *testing.T) {
	repo := &memoryRates{rates: map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("41.25"),
	}}
	svc := NewService(repo)
	got, err := svc.Convert(context.Background(), decimal.RequireFromString("100"), "USD", "UAH", 1, time.Now())
	require.NoError(t, err)
	require.Equal(t, "4125", got.String())
}

func TestConvertCrossRate(t *testing.T) {
	repo := &memoryRates{rates: map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("41.25"),
		"EUR": decimal.RequireFromString("45.00"),
	}}
	svc := NewService(repo)
	got, err := svc.Convert(context.Background(), decimal.RequireFromString("90"), "EUR", "USD", 1, time.Now())
	require.NoError(t, err)
	require.Equal(t, "98.18", got.String())
}

func TestConvertMissingRate(t *testing.T) {
	svc := NewService(&memoryRates{})
	_, err := svc.Convert(context.Background(), decimal.NewFromInt(10), "USD", "UAH", 1, time.Now())
	require.ErrorIs(t, err, ErrRateNotFound)
}
