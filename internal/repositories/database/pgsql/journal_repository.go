package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	"github.com/sitebooks/sitebooks/internal/models"
	"github.com/sitebooks/sitebooks/internal/utils/mapping"
	"github.com/sitebooks/sitebooks/internal/utils/pagination"
)

const entryColumns = `entry_id, entry_number, entry_date, description, status, approved_by, approved_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal entry and
// transaction line data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row rowScanner) (models.JournalEntry, error) {
	var modelEntry models.JournalEntry
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime

	err := row.Scan(
		&modelEntry.EntryID,
		&modelEntry.EntryNumber,
		&modelEntry.EntryDate,
		&modelEntry.Description,
		&modelEntry.Status,
		&approvedBy,
		&approvedAt,
		&modelEntry.CreatedAt,
		&modelEntry.CreatedBy,
		&modelEntry.LastUpdatedAt,
		&modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if approvedBy.Valid {
		modelEntry.ApprovedBy = &approvedBy.Int64
	}
	if approvedAt.Valid {
		modelEntry.ApprovedAt = &approvedAt.Time
	}
	return modelEntry, nil
}

// SavePosting persists the entry header, its lines, and the account balance
// deltas in a single transaction owned by this method.
func (r *PgxJournalRepository) SavePosting(ctx context.Context, posting portsrepo.LedgerPosting) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // No-op once committed

	saved, err := r.SavePostingInTx(ctx, tx, posting)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit posting %s: %w", posting.Entry.EntryNumber, err)
	}
	return saved, nil
}

// SavePostingInTx persists the posting inside a caller-owned transaction. It
// inserts the header, locks and updates the touched accounts, and batch
// inserts the lines. The caller commits.
func (r *PgxJournalRepository) SavePostingInTx(ctx context.Context, tx pgx.Tx, posting portsrepo.LedgerPosting) (*domain.JournalEntry, error) {
	modelEntry := mapping.ToModelJournalEntry(posting.Entry)

	entryQuery := `
		INSERT INTO journal_entries (entry_number, entry_date, description, status, approved_by, approved_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING entry_id;
	`
	var approvedBy sql.NullInt64
	if modelEntry.ApprovedBy != nil {
		approvedBy = sql.NullInt64{Int64: *modelEntry.ApprovedBy, Valid: true}
	}
	var approvedAt sql.NullTime
	if modelEntry.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: *modelEntry.ApprovedAt, Valid: true}
	}

	err := tx.QueryRow(ctx, entryQuery,
		modelEntry.EntryNumber,
		modelEntry.EntryDate,
		modelEntry.Description,
		modelEntry.Status,
		approvedBy,
		approvedAt,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	).Scan(&modelEntry.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert journal entry %s: %w", modelEntry.EntryNumber, err)
	}

	// Lock every touched account before moving balances so concurrent
	// postings serialize per account.
	accountIDs := make([]int64, 0, len(posting.BalanceChanges))
	for accID := range posting.BalanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return nil, fmt.Errorf("failed to lock accounts for posting %s: %w", modelEntry.EntryNumber, err)
	}

	now := posting.Entry.CreatedAt
	userID := posting.Entry.CreatedBy
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, posting.BalanceChanges, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update account balances for posting %s: %w", modelEntry.EntryNumber, err)
	}

	lineQuery := `
		INSERT INTO transaction_lines (entry_id, account_id, debit_amount, credit_amount, description)
		VALUES ($1, $2, $3, $4, $5);
	`
	batch := &pgx.Batch{}
	for _, line := range posting.Lines {
		modelLine := mapping.ToModelTransactionLine(line)
		batch.Queue(lineQuery,
			modelEntry.EntryID,
			modelLine.AccountID,
			modelLine.DebitAmount,
			modelLine.CreditAmount,
			modelLine.Description,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("failed to insert transaction lines for entry %s: %w", modelEntry.EntryNumber, err)
	}

	saved := mapping.ToDomainJournalEntry(modelEntry)
	return &saved, nil
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	modelEntry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %d: %w", entryID, err)
	}

	domainEntry := mapping.ToDomainJournalEntry(modelEntry)
	return &domainEntry, nil
}

// FindLinesByEntryID retrieves the transaction lines of one entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID int64) ([]domain.TransactionLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit_amount, credit_amount, description
		FROM transaction_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %d: %w", entryID, err)
	}
	defer rows.Close()

	modelLines := []models.TransactionLine{}
	for rows.Next() {
		var modelLine models.TransactionLine
		err := rows.Scan(
			&modelLine.LineID,
			&modelLine.EntryID,
			&modelLine.AccountID,
			&modelLine.DebitAmount,
			&modelLine.CreditAmount,
			&modelLine.Description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction line row: %w", err)
		}
		modelLines = append(modelLines, modelLine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction line rows: %w", err)
	}

	return mapping.ToDomainTransactionLineSlice(modelLines), nil
}

// ListEntries retrieves entries newest-first with token pagination. The
// cursor is a tuple of entry date and entry ID so same-day entries page
// deterministically.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	fetchLimit := limit + 1 // Fetch one extra to know whether more pages exist

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	args := []any{fetchLimit}

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		cursorDate, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token date", apperrors.ErrValidation)
		}
		cursorID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token id", apperrors.ErrValidation)
		}
		query += ` WHERE (entry_date, entry_id) < ($2, $3)`
		args = append(args, cursorDate, cursorID)
	}

	query += ` ORDER BY entry_date DESC, entry_id DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	modelEntries := []models.JournalEntry{}
	for rows.Next() {
		modelEntry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		modelEntries = append(modelEntries, modelEntry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var newNextToken *string
	if len(modelEntries) == fetchLimit {
		last := modelEntries[limit-1]
		token := pagination.EncodeMultiFieldToken(
			last.EntryDate.Format(time.RFC3339Nano),
			strconv.FormatInt(last.EntryID, 10),
		)
		newNextToken = &token
		modelEntries = modelEntries[:limit]
	}

	return mapping.ToDomainJournalEntrySlice(modelEntries), newNextToken, nil
}

// UpdateEntryStatus transitions a Draft entry to Approved or Rejected. The
// status predicate makes the transition single-shot: once an entry leaves
// Draft, further attempts surface ErrConflict.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID int64, status domain.EntryStatus, approverID int64, approvedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, approved_by = $3, approved_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE entry_id = $1 AND status = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, string(status), approverID, approvedAt, string(domain.EntryDraft))
	if err != nil {
		return fmt.Errorf("failed to update status of entry %d: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		checkErr := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM journal_entries WHERE entry_id = $1)`, entryID).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("failed to check entry %d existence: %w", entryID, checkErr)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: entry %d is no longer in draft", apperrors.ErrConflict, entryID)
	}
	return nil
}
