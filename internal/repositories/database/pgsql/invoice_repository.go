package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	"github.com/sitebooks/sitebooks/internal/models"
	"github.com/sitebooks/sitebooks/internal/utils/mapping"
)

const invoiceColumns = `invoice_id, invoice_number, invoice_date, due_date, customer_id, vendor_id, project_id, type, subtotal, tax_amount, total_amount, currency_code, status, description, created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, payment_number, payment_date, invoice_id, amount, currency_code, exchange_rate, payment_method, reference_number, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxInvoiceRepository struct {
	BaseRepository
	journalRepo portsrepo.JournalRepositoryFacade
	projectRepo portsrepo.ProjectRepository
}

// newPgxInvoiceRepository creates a new repository for invoice and payment
// data. It composes the journal and project repositories so each business
// operation commits exactly one transaction.
func newPgxInvoiceRepository(pool *pgxpool.Pool, journalRepo portsrepo.JournalRepositoryFacade, projectRepo portsrepo.ProjectRepository) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
		journalRepo:    journalRepo,
		projectRepo:    projectRepo,
	}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row rowScanner) (models.Invoice, error) {
	var modelInv models.Invoice
	var dueDate sql.NullTime
	var customerID, vendorID, projectID sql.NullInt64

	err := row.Scan(
		&modelInv.InvoiceID,
		&modelInv.InvoiceNumber,
		&modelInv.InvoiceDate,
		&dueDate,
		&customerID,
		&vendorID,
		&projectID,
		&modelInv.Type,
		&modelInv.Subtotal,
		&modelInv.TaxAmount,
		&modelInv.TotalAmount,
		&modelInv.CurrencyCode,
		&modelInv.Status,
		&modelInv.Description,
		&modelInv.CreatedAt,
		&modelInv.CreatedBy,
		&modelInv.LastUpdatedAt,
		&modelInv.LastUpdatedBy,
	)
	if err != nil {
		return models.Invoice{}, err
	}
	if dueDate.Valid {
		modelInv.DueDate = &dueDate.Time
	}
	if customerID.Valid {
		modelInv.CustomerID = &customerID.Int64
	}
	if vendorID.Valid {
		modelInv.VendorID = &vendorID.Int64
	}
	if projectID.Valid {
		modelInv.ProjectID = &projectID.Int64
	}
	return modelInv, nil
}

func scanPayment(row rowScanner) (models.Payment, error) {
	var modelPay models.Payment
	err := row.Scan(
		&modelPay.PaymentID,
		&modelPay.PaymentNumber,
		&modelPay.PaymentDate,
		&modelPay.InvoiceID,
		&modelPay.Amount,
		&modelPay.CurrencyCode,
		&modelPay.ExchangeRate,
		&modelPay.PaymentMethod,
		&modelPay.ReferenceNumber,
		&modelPay.Notes,
		&modelPay.CreatedAt,
		&modelPay.CreatedBy,
		&modelPay.LastUpdatedAt,
		&modelPay.LastUpdatedBy,
	)
	if err != nil {
		return models.Payment{}, err
	}
	return modelPay, nil
}

// CreateInvoiceWithPosting persists the invoice, its ledger posting, and the
// project spend increment in one transaction.
func (r *PgxInvoiceRepository) CreateInvoiceWithPosting(ctx context.Context, invoice domain.Invoice, posting portsrepo.LedgerPosting, projectSpentDelta decimal.Decimal) (*domain.Invoice, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	modelInv := mapping.ToModelInvoice(invoice)

	query := `
		INSERT INTO invoices (invoice_number, invoice_date, due_date, customer_id, vendor_id, project_id, type, subtotal, tax_amount, total_amount, currency_code, status, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING invoice_id;
	`
	err = tx.QueryRow(ctx, query,
		modelInv.InvoiceNumber,
		modelInv.InvoiceDate,
		modelInv.DueDate,
		modelInv.CustomerID,
		modelInv.VendorID,
		modelInv.ProjectID,
		modelInv.Type,
		modelInv.Subtotal,
		modelInv.TaxAmount,
		modelInv.TotalAmount,
		modelInv.CurrencyCode,
		modelInv.Status,
		modelInv.Description,
		modelInv.CreatedAt,
		modelInv.CreatedBy,
		modelInv.LastUpdatedAt,
		modelInv.LastUpdatedBy,
	).Scan(&modelInv.InvoiceID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: invoice number %s already exists", apperrors.ErrDuplicate, modelInv.InvoiceNumber)
		}
		return nil, fmt.Errorf("failed to insert invoice %s: %w", modelInv.InvoiceNumber, err)
	}

	if _, err := r.journalRepo.SavePostingInTx(ctx, tx, posting); err != nil {
		return nil, fmt.Errorf("failed to post ledger entry for invoice %s: %w", modelInv.InvoiceNumber, err)
	}

	if invoice.ProjectID != nil && projectSpentDelta.IsPositive() {
		if err := r.projectRepo.IncrementSpentInTx(ctx, tx, *invoice.ProjectID, projectSpentDelta, invoice.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to increment spent for project %d: %w", *invoice.ProjectID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit invoice %s: %w", modelInv.InvoiceNumber, err)
	}

	saved := mapping.ToDomainInvoice(modelInv)
	return &saved, nil
}

// CreatePaymentWithPosting persists the payment, its ledger posting, and the
// reconciliation outcome in one transaction. The invoice row is locked so
// concurrent payments on the same invoice serialize.
func (r *PgxInvoiceRepository) CreatePaymentWithPosting(ctx context.Context, payment domain.Payment, posting portsrepo.LedgerPosting, paidThreshold decimal.Decimal) (*domain.Payment, bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer r.Rollback(ctx, tx)

	var invoiceStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM invoices WHERE invoice_id = $1 FOR UPDATE;`, payment.InvoiceID).Scan(&invoiceStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, fmt.Errorf("%w: invoice %d", apperrors.ErrNotFound, payment.InvoiceID)
		}
		return nil, false, fmt.Errorf("failed to lock invoice %d: %w", payment.InvoiceID, err)
	}
	if invoiceStatus == string(domain.InvoicePaid) {
		return nil, false, fmt.Errorf("%w: invoice %d is already paid", apperrors.ErrConflict, payment.InvoiceID)
	}

	modelPay := mapping.ToModelPayment(payment)

	query := `
		INSERT INTO payments (payment_number, payment_date, invoice_id, amount, currency_code, exchange_rate, payment_method, reference_number, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING payment_id;
	`
	err = tx.QueryRow(ctx, query,
		modelPay.PaymentNumber,
		modelPay.PaymentDate,
		modelPay.InvoiceID,
		modelPay.Amount,
		modelPay.CurrencyCode,
		modelPay.ExchangeRate,
		modelPay.PaymentMethod,
		modelPay.ReferenceNumber,
		modelPay.Notes,
		modelPay.CreatedAt,
		modelPay.CreatedBy,
		modelPay.LastUpdatedAt,
		modelPay.LastUpdatedBy,
	).Scan(&modelPay.PaymentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, false, fmt.Errorf("%w: payment number %s already exists", apperrors.ErrDuplicate, modelPay.PaymentNumber)
		}
		return nil, false, fmt.Errorf("failed to insert payment %s: %w", modelPay.PaymentNumber, err)
	}

	if _, err := r.journalRepo.SavePostingInTx(ctx, tx, posting); err != nil {
		return nil, false, fmt.Errorf("failed to post ledger entry for payment %s: %w", modelPay.PaymentNumber, err)
	}

	// Reconcile: sum every payment converted to the invoice currency at its
	// captured rate, including the one just inserted.
	var paidTotal decimal.Decimal
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount * exchange_rate), 0) FROM payments WHERE invoice_id = $1;`,
		payment.InvoiceID,
	).Scan(&paidTotal)
	if err != nil {
		return nil, false, fmt.Errorf("failed to sum payments for invoice %d: %w", payment.InvoiceID, err)
	}

	settled := paidTotal.GreaterThanOrEqual(paidThreshold)
	if settled {
		_, err = tx.Exec(ctx,
			`UPDATE invoices SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE invoice_id = $1;`,
			payment.InvoiceID, string(domain.InvoicePaid), payment.CreatedAt, payment.CreatedBy,
		)
		if err != nil {
			return nil, false, fmt.Errorf("failed to mark invoice %d paid: %w", payment.InvoiceID, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, false, fmt.Errorf("failed to commit payment %s: %w", modelPay.PaymentNumber, err)
	}

	saved := mapping.ToDomainPayment(modelPay)
	return &saved, settled, nil
}

// MarkOverdueInvoices flips unpaid invoices past their due date to Overdue.
func (r *PgxInvoiceRepository) MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE invoices
		SET status = $2, last_updated_at = $1
		WHERE status = $3 AND due_date IS NOT NULL AND due_date < $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, asOf, string(domain.InvoiceOverdue), string(domain.InvoicePending))
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	modelInv, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %d: %w", invoiceID, err)
	}

	domainInv := mapping.ToDomainInvoice(modelInv)
	return &domainInv, nil
}

// ListInvoices retrieves invoices newest-first, optionally filtered by type
// and status.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}
	conditions := []string{}

	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY invoice_date DESC, invoice_id DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	modelInvoices := []models.Invoice{}
	for rows.Next() {
		modelInv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		modelInvoices = append(modelInvoices, modelInv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	return mapping.ToDomainInvoiceSlice(modelInvoices), nil
}

// FindPaymentsByInvoiceID retrieves all payments on one invoice.
func (r *PgxInvoiceRepository) FindPaymentsByInvoiceID(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE invoice_id = $1 ORDER BY payment_date, payment_id;`

	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for invoice %d: %w", invoiceID, err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

// ListPayments retrieves payments newest-first.
func (r *PgxInvoiceRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY payment_date DESC, payment_id DESC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	modelPayments := []models.Payment{}
	for rows.Next() {
		modelPay, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		modelPayments = append(modelPayments, modelPay)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return mapping.ToDomainPaymentSlice(modelPayments), nil
}

// CountOverdueReceivables returns the count and total of overdue receivable
// invoices on a project.
func (r *PgxInvoiceRepository) CountOverdueReceivables(ctx context.Context, projectID int64) (int, decimal.Decimal, error) {
	return r.countReceivables(ctx, projectID, []string{string(domain.InvoiceOverdue)})
}

// CountOutstandingReceivables returns the count and total of pending or
// overdue receivable invoices on a project.
func (r *PgxInvoiceRepository) CountOutstandingReceivables(ctx context.Context, projectID int64) (int, decimal.Decimal, error) {
	return r.countReceivables(ctx, projectID, []string{string(domain.InvoicePending), string(domain.InvoiceOverdue)})
}

func (r *PgxInvoiceRepository) countReceivables(ctx context.Context, projectID int64, statuses []string) (int, decimal.Decimal, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM invoices
		WHERE project_id = $1 AND type = $2 AND status = ANY($3);
	`
	var count int
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, projectID, string(domain.Receivable), statuses).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to count receivables for project %d: %w", projectID, err)
	}
	return count, total, nil
}
