package services

import (
	"context"

	"github.com/sitebooks/sitebooks/internal/core/domain"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its transaction lines.
	GetEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of journal entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// PostEntry validates and persists a balanced journal entry, applying
	// its line amounts to account balances atomically.
	PostEntry(ctx context.Context, req dto.CreateJournalEntryRequest, caller domain.Caller) (*domain.JournalEntry, error)

	// ApproveEntry transitions a draft entry to approved. A second approval
	// attempt fails with apperrors.ErrConflict.
	ApproveEntry(ctx context.Context, entryID int64, caller domain.Caller) (*domain.JournalEntry, error)

	// RejectEntry transitions a draft entry to rejected.
	RejectEntry(ctx context.Context, entryID int64, caller domain.Caller) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
