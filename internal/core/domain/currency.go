package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary key (e.g. "USD")
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	AuditFields
}

// ExchangeRate stores the conversion rate between two currencies effective
// from a specific date. The most recent effective rate wins at resolution
// time.
type ExchangeRate struct {
	ExchangeRateID   int64           `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	AuditFields
}
