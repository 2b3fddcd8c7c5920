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
	ErrMissingCustomer   = fmt.Errorf("%w: receivable invoices require a customer", apperrors.ErrValidation)
	ErrMissingVendor     = fmt.Errorf("%w: payable invoices require a vendor", apperrors.ErrValidation)
	ErrInvoiceSettled    = fmt.Errorf("%w: invoice is already fully paid", apperrors.ErrConflict)
	ErrNonPositiveAmount = fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
)

// LedgerConfig names the control accounts invoice and payment postings move
// money through, plus the base currency the ledger is kept in.
type LedgerConfig struct {
	BaseCurrency        string
	CashCode            string
	ReceivableCode      string
	PayableCode         string
	RevenueSuspenseCode string
	ExpenseSuspenseCode string
	// PaymentTolerance is the fraction of the invoice total at which the
	// invoice counts as settled (e.g. 0.99).
	PaymentTolerance decimal.Decimal
}

// invoiceService provides invoice and payment operations. Every write posts a
// balanced journal entry through the same engine manual entries use.
type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	accountRepo  portsrepo.AccountReader
	partyRepo    portsrepo.PartyRepository
	projectRepo  portsrepo.ProjectRepository
	rateSvc      portssvc.ExchangeRateReaderSvc
	sequenceRepo portsrepo.SequenceRepository
	cfg          LedgerConfig
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	partyRepo portsrepo.PartyRepository,
	projectRepo portsrepo.ProjectRepository,
	rateSvc portssvc.ExchangeRateReaderSvc,
	sequenceRepo portsrepo.SequenceRepository,
	cfg LedgerConfig,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		accountRepo:  accountRepo,
		partyRepo:    partyRepo,
		projectRepo:  projectRepo,
		rateSvc:      rateSvc,
		sequenceRepo: sequenceRepo,
		cfg:          cfg,
	}
}

// Ensure invoiceService implements the portssvc.InvoiceSvcFacade interface
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// postingFor builds a two-line balanced posting moving amount from the credit
// account to the debit account, with the net balance deltas precomputed.
func (s *invoiceService) postingFor(ctx context.Context, date time.Time, description string, debitCode, creditCode string, amount decimal.Decimal, caller domain.Caller) (portsrepo.LedgerPosting, error) {
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, []string{debitCode, creditCode})
	if err != nil {
		return portsrepo.LedgerPosting{}, fmt.Errorf("failed to fetch ledger accounts: %w", err)
	}
	debitAcc, ok := accounts[debitCode]
	if !ok {
		return portsrepo.LedgerPosting{}, fmt.Errorf("%w: ledger account %s", apperrors.ErrNotFound, debitCode)
	}
	creditAcc, ok := accounts[creditCode]
	if !ok {
		return portsrepo.LedgerPosting{}, fmt.Errorf("%w: ledger account %s", apperrors.ErrNotFound, creditCode)
	}

	lines := []domain.TransactionLine{
		{AccountID: debitAcc.AccountID, DebitAmount: amount, CreditAmount: decimal.Zero, Description: description},
		{AccountID: creditAcc.AccountID, DebitAmount: decimal.Zero, CreditAmount: amount, Description: description},
	}

	changes := make(map[int64]decimal.Decimal, 2)
	for _, line := range lines {
		acc := debitAcc
		if line.AccountID == creditAcc.AccountID {
			acc = creditAcc
		}
		delta, err := accounting.SignedDelta(line, acc.AccountType)
		if err != nil {
			return portsrepo.LedgerPosting{}, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}

	seq, err := s.sequenceRepo.NextNumber(ctx, numbering.KindJournalEntry, date)
	if err != nil {
		return portsrepo.LedgerPosting{}, fmt.Errorf("failed to allocate entry number: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryNumber: numbering.Format(numbering.KindJournalEntry, date, seq),
		EntryDate:   date,
		Description: description,
		Status:      domain.EntryApproved,
		ApprovedBy:  &caller.UserID,
		ApprovedAt:  &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	return portsrepo.LedgerPosting{Entry: entry, Lines: lines, BalanceChanges: changes}, nil
}

// validateParties checks the party reference matching the invoice type.
func (s *invoiceService) validateParties(ctx context.Context, req dto.CreateInvoiceRequest) error {
	switch req.Type {
	case domain.Receivable:
		if req.CustomerID == nil {
			return ErrMissingCustomer
		}
		if _, err := s.partyRepo.FindCustomerByID(ctx, *req.CustomerID); err != nil {
			return fmt.Errorf("failed to find customer %d: %w", *req.CustomerID, err)
		}
	case domain.Payable:
		if req.VendorID == nil {
			return ErrMissingVendor
		}
		if _, err := s.partyRepo.FindVendorByID(ctx, *req.VendorID); err != nil {
			return fmt.Errorf("failed to find vendor %d: %w", *req.VendorID, err)
		}
	default:
		return fmt.Errorf("%w: invalid invoice type %s", apperrors.ErrValidation, req.Type)
	}
	return nil
}

// CreateInvoice persists an invoice together with its balanced ledger posting.
// Receivables debit accounts receivable against revenue; payables book the
// expense against accounts payable. Either kind bumps the linked project's
// spent figure.
// Implements portssvc.InvoiceWriterSvc
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, caller domain.Caller) (*domain.Invoice, error) {
	if req.Subtotal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: subtotal", ErrNonPositiveAmount)
	}
	if req.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: tax amount must not be negative", apperrors.ErrValidation)
	}
	if err := s.validateParties(ctx, req); err != nil {
		return nil, err
	}
	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, *req.ProjectID); err != nil {
			return nil, fmt.Errorf("failed to find project %d: %w", *req.ProjectID, err)
		}
	}

	totalAmount := req.Subtotal.Add(req.TaxAmount)

	// The ledger is kept in the base currency; convert before posting
	rate, err := s.rateSvc.ResolveRate(ctx, req.CurrencyCode, s.cfg.BaseCurrency)
	if err != nil {
		return nil, err
	}
	postedAmount := totalAmount.Mul(rate)

	kind := numbering.KindReceivable
	debitCode, creditCode := s.cfg.ReceivableCode, s.cfg.RevenueSuspenseCode
	if req.Type == domain.Payable {
		kind = numbering.KindPayable
		debitCode, creditCode = s.cfg.ExpenseSuspenseCode, s.cfg.PayableCode
	}

	seq, err := s.sequenceRepo.NextNumber(ctx, kind, req.InvoiceDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate invoice number")
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	invoiceNumber := numbering.Format(kind, req.InvoiceDate, seq)

	posting, err := s.postingFor(ctx, req.InvoiceDate,
		fmt.Sprintf("Invoice %s", invoiceNumber), debitCode, creditCode, postedAmount, caller)
	if err != nil {
		s.LogError(ctx, err, "Failed to build invoice posting", slog.String("invoice_number", invoiceNumber))
		return nil, err
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceNumber: invoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		CustomerID:    req.CustomerID,
		VendorID:      req.VendorID,
		ProjectID:     req.ProjectID,
		Type:          req.Type,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
		TotalAmount:   totalAmount,
		CurrencyCode:  req.CurrencyCode,
		Status:        domain.InvoicePending,
		Description:   req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	// Any invoice against a project counts toward its spend, in base currency
	spentDelta := decimal.Zero
	if req.ProjectID != nil {
		spentDelta = postedAmount
	}

	saved, err := s.invoiceRepo.CreateInvoiceWithPosting(ctx, invoice, posting, spentDelta)
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("invoice_number", invoiceNumber))
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.LogInfo(ctx, "Invoice created",
		slog.Int64("invoice_id", saved.InvoiceID),
		slog.String("invoice_number", saved.InvoiceNumber),
		slog.String("type", string(saved.Type)))
	return saved, nil
}

// RecordPayment persists a payment with its ledger posting and reconciles the
// invoice against the settlement threshold.
// Implements portssvc.InvoiceWriterSvc
func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID int64, req dto.CreatePaymentRequest, caller domain.Caller) (*domain.Payment, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount", ErrNonPositiveAmount)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice %d: %w", invoiceID, err)
	}
	if invoice.Status == domain.InvoicePaid {
		return nil, ErrInvoiceSettled
	}

	// Rate from the payment currency into the invoice currency, captured on
	// the payment for reconciliation. A rate supplied on the request takes
	// precedence over the stored rates.
	var invoiceRate decimal.Decimal
	if req.ExchangeRate != nil {
		if req.ExchangeRate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		invoiceRate = *req.ExchangeRate
	} else {
		invoiceRate, err = s.rateSvc.ResolveRate(ctx, req.CurrencyCode, invoice.CurrencyCode)
		if err != nil {
			return nil, err
		}
	}

	// Rate from the payment currency into the base currency for the posting
	baseRate, err := s.rateSvc.ResolveRate(ctx, req.CurrencyCode, s.cfg.BaseCurrency)
	if err != nil {
		return nil, err
	}
	postedAmount := req.Amount.Mul(baseRate)

	// Receivable payments bring cash in against AR; payable payments clear
	// AP out of cash
	debitCode, creditCode := s.cfg.CashCode, s.cfg.ReceivableCode
	if invoice.Type == domain.Payable {
		debitCode, creditCode = s.cfg.PayableCode, s.cfg.CashCode
	}

	seq, err := s.sequenceRepo.NextNumber(ctx, numbering.KindPayment, req.PaymentDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate payment number")
		return nil, fmt.Errorf("failed to allocate payment number: %w", err)
	}
	paymentNumber := numbering.Format(numbering.KindPayment, req.PaymentDate, seq)

	posting, err := s.postingFor(ctx, req.PaymentDate,
		fmt.Sprintf("Payment %s against invoice %s", paymentNumber, invoice.InvoiceNumber),
		debitCode, creditCode, postedAmount, caller)
	if err != nil {
		s.LogError(ctx, err, "Failed to build payment posting", slog.String("payment_number", paymentNumber))
		return nil, err
	}

	now := time.Now().UTC()
	payment := domain.Payment{
		PaymentNumber:   paymentNumber,
		PaymentDate:     req.PaymentDate,
		InvoiceID:       invoiceID,
		Amount:          req.Amount,
		CurrencyCode:    req.CurrencyCode,
		ExchangeRate:    invoiceRate,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	// Settled when cumulative payments in the invoice currency reach the
	// tolerance fraction of the total, absorbing rounding drift
	paidThreshold := invoice.TotalAmount.Mul(s.cfg.PaymentTolerance)

	saved, settled, err := s.invoiceRepo.CreatePaymentWithPosting(ctx, payment, posting, paidThreshold)
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment", slog.String("payment_number", paymentNumber))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.Int64("payment_id", saved.PaymentID),
		slog.String("payment_number", saved.PaymentNumber),
		slog.Int64("invoice_id", invoiceID),
		slog.Bool("invoice_settled", settled))
	return saved, nil
}

// GetInvoiceByID retrieves an invoice with its payments.
// Implements portssvc.InvoiceReaderSvc
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find invoice", slog.Int64("invoice_id", invoiceID))
		}
		return nil, fmt.Errorf("failed to find invoice %d: %w", invoiceID, err)
	}

	payments, err := s.invoiceRepo.FindPaymentsByInvoiceID(ctx, invoiceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch payments for invoice", slog.Int64("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to retrieve payments for invoice %d: %w", invoiceID, apperrors.ErrInternal)
	}
	invoice.Payments = payments

	return invoice, nil
}

// ListInvoices retrieves invoices filtered by type and status.
// Implements portssvc.InvoiceReaderSvc
func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx, portsrepo.InvoiceFilter{
		Type:   params.Type,
		Status: params.Status,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// ListPayments retrieves payments, optionally for a single invoice.
// Implements portssvc.InvoiceReaderSvc
func (s *invoiceService) ListPayments(ctx context.Context, invoiceID *int64) ([]domain.Payment, error) {
	var payments []domain.Payment
	var err error
	if invoiceID != nil {
		payments, err = s.invoiceRepo.FindPaymentsByInvoiceID(ctx, *invoiceID)
	} else {
		payments, err = s.invoiceRepo.ListPayments(ctx)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments")
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// MarkOverdueInvoices flags pending invoices past their due date.
// Implements portssvc.InvoiceWriterSvc
func (s *invoiceService) MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error) {
	updated, err := s.invoiceRepo.MarkOverdueInvoices(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to mark overdue invoices")
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}

	if updated > 0 {
		s.LogInfo(ctx, "Invoices marked overdue", slog.Int64("count", updated))
	}
	return updated, nil
}
