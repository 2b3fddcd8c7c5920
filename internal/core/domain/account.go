package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "Asset"
	Liability AccountType = "Liability"
	Equity    AccountType = "Equity"
	Revenue   AccountType = "Revenue"
	Expense   AccountType = "Expense"
)

// IsValid reports whether t is one of the five chart-of-account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a financial account within the ledger.
// Balance is a derived running total: it is only ever mutated through posted
// transaction lines, never written directly (initial seeding aside).
type Account struct {
	AccountID       int64           `json:"accountID"`
	Code            string          `json:"code"` // Unique, sortable (e.g. "1100")
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID *int64          `json:"parentAccountID,omitempty"` // Self-referencing tree
	Balance         decimal.Decimal `json:"balance"`                   // Signed, account-native convention
	IsActive        bool            `json:"isActive"`
	AuditFields
}
