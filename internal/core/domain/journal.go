package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the workflow state of a journal entry.
type EntryStatus string

const (
	EntryDraft    EntryStatus = "Draft"
	EntryApproved EntryStatus = "Approved"
	EntryRejected EntryStatus = "Rejected"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple transaction lines. Once the status leaves Draft the entry is
// immutable.
type JournalEntry struct {
	EntryID     int64       `json:"entryID"`
	EntryNumber string      `json:"entryNumber"` // JE-YYYYMMDD-NNN, sequenced per date
	EntryDate   time.Time   `json:"entryDate"`
	Description string      `json:"description"`
	Status      EntryStatus `json:"status"`
	ApprovedBy  *int64      `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time  `json:"approvedAt,omitempty"`
	Lines       []TransactionLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// TransactionLine is a single line item within a JournalEntry, affecting one
// account. At most one of DebitAmount/CreditAmount is non-zero.
type TransactionLine struct {
	LineID       int64           `json:"lineID"`
	EntryID      int64           `json:"entryID"`
	AccountID    int64           `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}
