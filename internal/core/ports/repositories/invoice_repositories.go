package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Type   *domain.InvoiceType
	Status *domain.InvoiceStatus
}

// InvoiceReader defines read operations for invoices and payments.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice by its ID.
	FindInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error)

	// ListInvoices retrieves invoices newest-first, optionally filtered.
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)

	// FindPaymentsByInvoiceID retrieves all payments on one invoice.
	FindPaymentsByInvoiceID(ctx context.Context, invoiceID int64) ([]domain.Payment, error)

	// ListPayments retrieves payments newest-first.
	ListPayments(ctx context.Context) ([]domain.Payment, error)

	// CountOverdueReceivables returns the count and total of overdue
	// receivable invoices on a project, for risk scoring.
	CountOverdueReceivables(ctx context.Context, projectID int64) (int, decimal.Decimal, error)

	// CountOutstandingReceivables returns the count and total of pending or
	// overdue receivable invoices on a project, for health assessment.
	CountOutstandingReceivables(ctx context.Context, projectID int64) (int, decimal.Decimal, error)
}

// InvoiceWriter defines the posting write paths. Each method owns one
// database transaction covering every side effect of the business operation.
type InvoiceWriter interface {
	// CreateInvoiceWithPosting persists the invoice, posts its balanced
	// ledger entry, and increments the linked project's spent figure, all
	// atomically. Returns the invoice with its generated ID.
	CreateInvoiceWithPosting(ctx context.Context, invoice domain.Invoice, posting LedgerPosting, projectSpentDelta decimal.Decimal) (*domain.Invoice, error)

	// CreatePaymentWithPosting persists the payment, posts its balanced
	// ledger entry, and reconciles the invoice: if converted payments reach
	// paidThreshold the invoice status flips to Paid. Returns the payment
	// and whether the invoice is now settled.
	CreatePaymentWithPosting(ctx context.Context, payment domain.Payment, posting LedgerPosting, paidThreshold decimal.Decimal) (*domain.Payment, bool, error)

	// MarkOverdueInvoices flips unpaid invoices past their due date to
	// Overdue and returns how many changed.
	MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error)
}

// InvoiceRepositoryFacade combines invoice read and write interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
