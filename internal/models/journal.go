package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors the domain entry workflow states at the storage layer.
type EntryStatus string

// JournalEntry represents a row in the journal_entries table.
type JournalEntry struct {
	EntryID     int64       `db:"entry_id"`
	EntryNumber string      `db:"entry_number"`
	EntryDate   time.Time   `db:"entry_date"`
	Description string      `db:"description"`
	Status      EntryStatus `db:"status"`
	ApprovedBy  *int64      `db:"approved_by"`
	ApprovedAt  *time.Time  `db:"approved_at"`
	AuditFields
}

// TransactionLine represents a row in the transaction_lines table.
type TransactionLine struct {
	LineID       int64           `db:"line_id"`
	EntryID      int64           `db:"entry_id"`
	AccountID    int64           `db:"account_id"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Description  string          `db:"description"`
}
