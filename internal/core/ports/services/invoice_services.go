package services

import (
	"context"
	"time"

	"github.com/sitebooks/sitebooks/internal/core/domain"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its payments.
	GetInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error)

	// ListInvoices retrieves invoices filtered by type and status.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error)

	// ListPayments retrieves payments, optionally for a single invoice.
	ListPayments(ctx context.Context, invoiceID *int64) ([]domain.Payment, error)
}

// InvoiceWriterSvc defines write operations for invoice data
type InvoiceWriterSvc interface {
	// CreateInvoice persists an invoice together with its balanced ledger
	// posting. Payable invoices also increment the project's spent total.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, caller domain.Caller) (*domain.Invoice, error)

	// RecordPayment persists a payment with its ledger posting and settles
	// the invoice when cumulative payments reach the reconciliation
	// threshold of the invoice total.
	RecordPayment(ctx context.Context, invoiceID int64, req dto.CreatePaymentRequest, caller domain.Caller) (*domain.Payment, error)

	// MarkOverdueInvoices flags pending invoices past their due date.
	// Returns the number of invoices updated.
	MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
