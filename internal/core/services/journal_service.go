package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/dto"
	"github.com/sitebooks/sitebooks/internal/utils/accounting"
	"github.com/sitebooks/sitebooks/internal/utils/numbering"
)

// Each sentinel wraps an apperrors sentinel so handlers can map it onto the
// right HTTP status with errors.Is.
var (
	ErrEntryUnbalanced  = fmt.Errorf("%w: journal entry debits and credits do not balance", apperrors.ErrValidation)
	ErrEntryMinLines    = fmt.Errorf("%w: journal entry must have at least two transaction lines", apperrors.ErrValidation)
	ErrEntryMinAccounts = fmt.Errorf("%w: journal entry must affect at least two different accounts", apperrors.ErrValidation)
	ErrAccountNotFound  = fmt.Errorf("%w: account referenced by entry", apperrors.ErrNotFound)
	ErrAccountInactive  = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)
	ErrEntryNotDraft    = fmt.Errorf("%w: journal entry has already been approved or rejected", apperrors.ErrConflict)
	ErrDescriptionEmpty = fmt.Errorf("%w: journal entry description is required", apperrors.ErrValidation)
)

// journalService provides core journal entry and transaction line operations.
type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountReader
	sequenceRepo portsrepo.SequenceRepository
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, sequenceRepo portsrepo.SequenceRepository) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts the request lines into domain lines and validates their
// amounts.
func (s *journalService) buildLines(req dto.CreateJournalEntryRequest) ([]domain.TransactionLine, error) {
	lines := make([]domain.TransactionLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.TransactionLine{
			AccountID:    lineReq.AccountID,
			DebitAmount:  lineReq.DebitAmount,
			CreditAmount: lineReq.CreditAmount,
			Description:  lineReq.Description,
		}
	}
	if err := accounting.ValidateLineAmounts(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return lines, nil
}

// resolveAccounts fetches the referenced accounts, ensuring each exists and
// is active, and returns them keyed by ID.
func (s *journalService) resolveAccounts(ctx context.Context, lines []domain.TransactionLine) (map[int64]domain.Account, error) {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}
	if len(ids) < 2 {
		return nil, ErrEntryMinAccounts
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %d", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: ID %d", ErrAccountInactive, id)
		}
	}
	return accounts, nil
}

// balanceChanges computes the net signed delta per account across all lines.
func (s *journalService) balanceChanges(lines []domain.TransactionLine, accounts map[int64]domain.Account) (map[int64]decimal.Decimal, error) {
	changes := make(map[int64]decimal.Decimal, len(accounts))
	for _, line := range lines {
		delta, err := accounting.SignedDelta(line, accounts[line.AccountID].AccountType)
		if err != nil {
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// PostEntry validates and persists a balanced journal entry.
// Implements portssvc.JournalWriterSvc
func (s *journalService) PostEntry(ctx context.Context, req dto.CreateJournalEntryRequest, caller domain.Caller) (*domain.JournalEntry, error) {
	if len(req.Lines) < 2 {
		return nil, ErrEntryMinLines
	}
	if req.Description == "" {
		return nil, ErrDescriptionEmpty
	}

	lines, err := s.buildLines(req)
	if err != nil {
		return nil, err
	}

	// Double-entry check: debits must equal credits within the tolerance
	if !accounting.IsBalanced(lines) {
		debits, credits := accounting.SumDebitsCredits(lines)
		return nil, fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			ErrEntryUnbalanced, debits.String(), credits.String())
	}

	accounts, err := s.resolveAccounts(ctx, lines)
	if err != nil {
		return nil, err
	}

	changes, err := s.balanceChanges(lines, accounts)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance changes")
		return nil, err
	}

	seq, err := s.sequenceRepo.NextNumber(ctx, numbering.KindJournalEntry, req.EntryDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate entry number")
		return nil, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryNumber: numbering.Format(numbering.KindJournalEntry, req.EntryDate, seq),
		EntryDate:   req.EntryDate,
		Description: req.Description,
		Status:      domain.EntryDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	saved, err := s.journalRepo.SavePosting(ctx, portsrepo.LedgerPosting{
		Entry:          entry,
		Lines:          lines,
		BalanceChanges: changes,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_number", entry.EntryNumber))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.Int64("entry_id", saved.EntryID),
		slog.String("entry_number", saved.EntryNumber),
		slog.Int("line_count", len(saved.Lines)))
	return saved, nil
}

// GetEntryByID retrieves a journal entry and its transaction lines.
// Implements portssvc.JournalReaderSvc
func (s *journalService) GetEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.Int64("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %d: %w", entryID, err)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch lines for journal entry", slog.Int64("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for journal entry %d: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	return entry, nil
}

// ListEntries retrieves a paginated list of journal entries.
// Implements portssvc.JournalReaderSvc
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return dto.ToListEntriesResponse(entries, nextToken), nil
}

// setEntryStatus performs the shared draft-to-terminal status transition.
func (s *journalService) setEntryStatus(ctx context.Context, entryID int64, status domain.EntryStatus, caller domain.Caller) (*domain.JournalEntry, error) {
	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, entryID, status, caller.UserID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotDraft, err.Error())
		}
		s.LogError(ctx, err, "Failed to update entry status",
			slog.Int64("entry_id", entryID), slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to update entry status: %w", err)
	}

	s.LogInfo(ctx, "Journal entry status updated",
		slog.Int64("entry_id", entryID),
		slog.String("status", string(status)),
		slog.Int64("approver_id", caller.UserID))
	return s.GetEntryByID(ctx, entryID)
}

// ApproveEntry transitions a draft entry to approved.
// Implements portssvc.JournalWriterSvc
func (s *journalService) ApproveEntry(ctx context.Context, entryID int64, caller domain.Caller) (*domain.JournalEntry, error) {
	return s.setEntryStatus(ctx, entryID, domain.EntryApproved, caller)
}

// RejectEntry transitions a draft entry to rejected.
// Implements portssvc.JournalWriterSvc
func (s *journalService) RejectEntry(ctx context.Context, entryID int64, caller domain.Caller) (*domain.JournalEntry, error) {
	return s.setEntryStatus(ctx, entryID, domain.EntryRejected, caller)
}
