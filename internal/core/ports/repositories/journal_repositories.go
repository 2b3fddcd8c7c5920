package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// LedgerPosting bundles a journal entry header, its lines, and the net
// balance delta per account. It is the only unit in which balances move.
type LedgerPosting struct {
	Entry          domain.JournalEntry
	Lines          []domain.TransactionLine
	BalanceChanges map[int64]decimal.Decimal
}

// JournalReader defines read operations for journal entries and lines.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry header by its ID.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the transaction lines of one entry.
	FindLinesByEntryID(ctx context.Context, entryID int64) ([]domain.TransactionLine, error)

	// ListEntries retrieves entries newest-first with token pagination.
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// SavePosting persists the posting atomically: entry header, lines, and
	// account balance deltas in one transaction. Returns the entry with
	// generated IDs.
	SavePosting(ctx context.Context, posting LedgerPosting) (*domain.JournalEntry, error)

	// SavePostingInTx is SavePosting running inside a caller-owned
	// transaction, for business operations that persist more than a journal
	// entry (invoice and payment postings).
	SavePostingInTx(ctx context.Context, tx pgx.Tx, posting LedgerPosting) (*domain.JournalEntry, error)

	// UpdateEntryStatus transitions a Draft entry to Approved or Rejected,
	// recording the approver and timestamp. Returns apperrors.ErrConflict if
	// the entry has already left Draft.
	UpdateEntryStatus(ctx context.Context, entryID int64, status domain.EntryStatus, approverID int64, approvedAt time.Time) error
}

// JournalRepositoryFacade combines journal read and write interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
