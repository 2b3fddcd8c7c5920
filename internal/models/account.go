package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the domain account types at the storage layer.
type AccountType string

// Account represents a row in the accounts table.
// ParentAccountID is nullable; scanning uses sql.NullInt64.
type Account struct {
	AccountID       int64           `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	ParentAccountID *int64          `db:"parent_account_id"`
	Balance         decimal.Decimal `db:"balance"`
	IsActive        bool            `db:"is_active"`
	AuditFields
}
