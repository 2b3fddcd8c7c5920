package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// CreateTransactionLineRequest is one line of a journal entry being posted.
// Exactly one of debitAmount/creditAmount must be positive.
type CreateTransactionLineRequest struct {
	AccountID    int64           `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateJournalEntryRequest defines the data needed to post a journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   time.Time                      `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	Description string                         `json:"description" binding:"required"`
	Lines       []CreateTransactionLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// TransactionLineResponse defines the data returned for a transaction line.
type TransactionLineResponse struct {
	LineID       int64           `json:"lineID"`
	AccountID    int64           `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID     int64                     `json:"entryID"`
	EntryNumber string                    `json:"entryNumber"`
	EntryDate   time.Time                 `json:"entryDate"`
	Description string                    `json:"description"`
	Status      domain.EntryStatus        `json:"status"`
	ApprovedBy  *int64                    `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time                `json:"approvedAt,omitempty"`
	Lines       []TransactionLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time                 `json:"createdAt"`
	CreatedBy   int64                     `json:"createdBy"`
}

// ListEntriesParams defines query parameters for listing journal entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of journal entries with the cursor for the
// next page, if any.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToTransactionLineResponse converts a domain.TransactionLine to its DTO.
func ToTransactionLineResponse(line *domain.TransactionLine) TransactionLineResponse {
	return TransactionLineResponse{
		LineID:       line.LineID,
		AccountID:    line.AccountID,
		DebitAmount:  line.DebitAmount,
		CreditAmount: line.CreditAmount,
		Description:  line.Description,
	}
}

// ToTransactionLineResponses converts a slice of domain.TransactionLine to DTOs.
func ToTransactionLineResponses(lines []domain.TransactionLine) []TransactionLineResponse {
	responses := make([]TransactionLineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToTransactionLineResponse(&line)
	}
	return responses
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:     entry.EntryID,
		EntryNumber: entry.EntryNumber,
		EntryDate:   entry.EntryDate,
		Description: entry.Description,
		Status:      entry.Status,
		ApprovedBy:  entry.ApprovedBy,
		ApprovedAt:  entry.ApprovedAt,
		Lines:       ToTransactionLineResponses(entry.Lines),
		CreatedAt:   entry.CreatedAt,
		CreatedBy:   entry.CreatedBy,
	}
}

// ToListEntriesResponse converts a page of entries plus cursor to the DTO.
func ToListEntriesResponse(entries []domain.JournalEntry, nextToken *string) *ListEntriesResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = ToJournalEntryResponse(&entry)
	}
	return &ListEntriesResponse{Entries: responses, NextToken: nextToken}
}
