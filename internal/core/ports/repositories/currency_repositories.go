package repositories

import (
	"context"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// CurrencyRepository defines persistence operations for currencies.
type CurrencyRepository interface {
	// SaveCurrency persists a new currency. Primarily for initial setup.
	SaveCurrency(ctx context.Context, currency domain.Currency) error

	// FindCurrencyByCode retrieves a currency by its ISO code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ExchangeRateRepository defines persistence operations for exchange rates.
type ExchangeRateRepository interface {
	// SaveExchangeRate inserts or updates the rate for a pair and effective date.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error)

	// FindLatestRate retrieves the most recent effective rate for the exact
	// (from, to) pair. Returns apperrors.ErrNotFound when no rate exists.
	FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error)

	// ListExchangeRates retrieves all rates, newest effective date first.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)
}
