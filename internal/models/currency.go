package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a row in the currencies table.
type Currency struct {
	CurrencyCode string `db:"currency_code"`
	Symbol       string `db:"symbol"`
	Name         string `db:"name"`
	AuditFields
}

// ExchangeRate represents a row in the exchange_rates table.
type ExchangeRate struct {
	ExchangeRateID   int64           `db:"exchange_rate_id"`
	FromCurrencyCode string          `db:"from_currency_code"`
	ToCurrencyCode   string          `db:"to_currency_code"`
	Rate             decimal.Decimal `db:"rate"`
	DateEffective    time.Time       `db:"date_effective"`
	AuditFields
}
