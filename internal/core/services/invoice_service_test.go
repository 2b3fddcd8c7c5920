package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/core/services"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

// Ensure MockInvoiceRepository implements portsrepo.InvoiceRepositoryFacade
var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID int64) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPaymentsByInvoiceID(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockInvoiceRepository) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockInvoiceRepository) CountOverdueReceivables(ctx context.Context, projectID int64) (int, decimal.Decimal, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockInvoiceRepository) CountOutstandingReceivables(ctx context.Context, projectID int64) (int, decimal.Decimal, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockInvoiceRepository) CreateInvoiceWithPosting(ctx context.Context, invoice domain.Invoice, posting portsrepo.LedgerPosting, projectSpentDelta decimal.Decimal) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice, posting, projectSpentDelta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CreatePaymentWithPosting(ctx context.Context, payment domain.Payment, posting portsrepo.LedgerPosting, paidThreshold decimal.Decimal) (*domain.Payment, bool, error) {
	args := m.Called(ctx, payment, posting, paidThreshold)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Payment), args.Bool(1), args.Error(2)
}

func (m *MockInvoiceRepository) MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock PartyRepository ---
type MockPartyRepository struct {
	mock.Mock
}

var _ portsrepo.PartyRepository = (*MockPartyRepository)(nil)

func (m *MockPartyRepository) SaveCustomer(ctx context.Context, customer domain.Party) (*domain.Party, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) SaveVendor(ctx context.Context, vendor domain.Party) (*domain.Party, error) {
	args := m.Called(ctx, vendor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Party, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) FindVendorByID(ctx context.Context, vendorID int64) (*domain.Party, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListCustomers(ctx context.Context) ([]domain.Party, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListVendors(ctx context.Context) ([]domain.Party, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

// --- Mock ProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

var _ portsrepo.ProjectRepository = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, status *domain.ProjectStatus) ([]domain.Project, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) IncrementSpentInTx(ctx context.Context, tx pgx.Tx, projectID int64, delta decimal.Decimal, updatedBy int64) error {
	args := m.Called(ctx, tx, projectID, delta, updatedBy)
	return args.Error(0)
}

// --- Mock ExchangeRateReaderSvc ---
type MockRateReaderService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateReaderSvc = (*MockRateReaderService)(nil)

func (m *MockRateReaderService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockRateReaderService) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

func (m *MockRateReaderService) ResolveRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCode, toCode)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Test Suite Setup ---
type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockAccountRepo  *MockAccountReader
	mockPartyRepo    *MockPartyRepository
	mockProjectRepo  *MockProjectRepository
	mockRateSvc      *MockRateReaderService
	mockSequenceRepo *MockSequenceRepository
	service          portssvc.InvoiceSvcFacade
	cfg              services.LedgerConfig
	caller           domain.Caller
	invoiceDate      time.Time
	ledgerAccounts   map[string]domain.Account
	customerID       int64
	vendorID         int64
	projectID        int64
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockRateSvc = new(MockRateReaderService)
	suite.mockSequenceRepo = new(MockSequenceRepository)

	suite.cfg = services.LedgerConfig{
		BaseCurrency:        "USD",
		CashCode:            "1000",
		ReceivableCode:      "1100",
		PayableCode:         "2000",
		RevenueSuspenseCode: "4900",
		ExpenseSuspenseCode: "5900",
		PaymentTolerance:    decimal.NewFromFloat(0.99),
	}
	suite.service = services.NewInvoiceService(
		suite.mockInvoiceRepo,
		suite.mockAccountRepo,
		suite.mockPartyRepo,
		suite.mockProjectRepo,
		suite.mockRateSvc,
		suite.mockSequenceRepo,
		suite.cfg,
	)

	suite.caller = domain.Caller{UserID: 3, Role: "accountant"}
	suite.invoiceDate = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	suite.customerID = int64(11)
	suite.vendorID = int64(22)
	suite.projectID = int64(5)

	suite.ledgerAccounts = map[string]domain.Account{
		"1000": {AccountID: 1, Code: "1000", AccountType: domain.Asset, IsActive: true},
		"1100": {AccountID: 2, Code: "1100", AccountType: domain.Asset, IsActive: true},
		"2000": {AccountID: 3, Code: "2000", AccountType: domain.Liability, IsActive: true},
		"4900": {AccountID: 4, Code: "4900", AccountType: domain.Revenue, IsActive: true},
		"5900": {AccountID: 5, Code: "5900", AccountType: domain.Expense, IsActive: true},
	}
}

// accountsFor serves the postingFor lookup for the given codes.
func (suite *InvoiceServiceTestSuite) accountsFor(codes ...string) map[string]domain.Account {
	result := make(map[string]domain.Account, len(codes))
	for _, code := range codes {
		result[code] = suite.ledgerAccounts[code]
	}
	return result
}

// --- Test Cases ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Receivable() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Receivable,
		InvoiceDate:  suite.invoiceDate,
		CustomerID:   &suite.customerID,
		Subtotal:     decimal.NewFromInt(1000),
		TaxAmount:    decimal.NewFromInt(100),
		CurrencyCode: "USD",
	}

	suite.mockPartyRepo.On("FindCustomerByID", ctx, suite.customerID).Return(&domain.Party{PartyID: suite.customerID}, nil).Once()
	suite.mockRateSvc.On("ResolveRate", ctx, "USD", "USD").Return(decimal.NewFromInt(1), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "INV", suite.invoiceDate).Return(int64(1), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "JE", suite.invoiceDate).Return(int64(1), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1100", "4900"}).Return(suite.accountsFor("1100", "4900"), nil).Once()

	var capturedInvoice domain.Invoice
	var capturedPosting portsrepo.LedgerPosting
	var capturedDelta decimal.Decimal
	suite.mockInvoiceRepo.On("CreateInvoiceWithPosting", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("repositories.LedgerPosting"), mock.AnythingOfType("decimal.Decimal")).
		Run(func(args mock.Arguments) {
			capturedInvoice = args.Get(1).(domain.Invoice)
			capturedPosting = args.Get(2).(portsrepo.LedgerPosting)
			capturedDelta = args.Get(3).(decimal.Decimal)
		}).
		Return(&domain.Invoice{InvoiceID: 77, InvoiceNumber: "INV-20250701-001", Type: domain.Receivable}, nil).Once()

	created, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().NoError(err)
	suite.Equal(int64(77), created.InvoiceID)

	suite.Equal("INV-20250701-001", capturedInvoice.InvoiceNumber)
	suite.Equal(domain.InvoicePending, capturedInvoice.Status)
	suite.True(capturedInvoice.TotalAmount.Equal(decimal.NewFromInt(1100)))

	// Receivables debit AR against the revenue suspense account
	suite.Require().Len(capturedPosting.Lines, 2)
	suite.Equal(suite.ledgerAccounts["1100"].AccountID, capturedPosting.Lines[0].AccountID)
	suite.True(capturedPosting.Lines[0].DebitAmount.Equal(decimal.NewFromInt(1100)))
	suite.Equal(suite.ledgerAccounts["4900"].AccountID, capturedPosting.Lines[1].AccountID)
	suite.True(capturedPosting.Lines[1].CreditAmount.Equal(decimal.NewFromInt(1100)))
	suite.Equal(domain.EntryApproved, capturedPosting.Entry.Status)

	// No project linked, so nothing accrues to project spend
	suite.True(capturedDelta.IsZero())

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_PayableBumpsProjectSpend() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Payable,
		InvoiceDate:  suite.invoiceDate,
		VendorID:     &suite.vendorID,
		ProjectID:    &suite.projectID,
		Subtotal:     decimal.NewFromInt(500),
		CurrencyCode: "USD",
	}

	suite.mockPartyRepo.On("FindVendorByID", ctx, suite.vendorID).Return(&domain.Party{PartyID: suite.vendorID}, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(&domain.Project{ProjectID: suite.projectID}, nil).Once()
	suite.mockRateSvc.On("ResolveRate", ctx, "USD", "USD").Return(decimal.NewFromInt(1), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "VINV", suite.invoiceDate).Return(int64(4), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "JE", suite.invoiceDate).Return(int64(9), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"5900", "2000"}).Return(suite.accountsFor("5900", "2000"), nil).Once()

	var capturedInvoice domain.Invoice
	var capturedDelta decimal.Decimal
	suite.mockInvoiceRepo.On("CreateInvoiceWithPosting", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedInvoice = args.Get(1).(domain.Invoice)
			capturedDelta = args.Get(3).(decimal.Decimal)
		}).
		Return(&domain.Invoice{InvoiceID: 78, Type: domain.Payable}, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().NoError(err)
	suite.Equal("VINV-20250701-004", capturedInvoice.InvoiceNumber)
	suite.True(capturedDelta.Equal(decimal.NewFromInt(500)))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ReceivableBumpsProjectSpend() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Receivable,
		InvoiceDate:  suite.invoiceDate,
		CustomerID:   &suite.customerID,
		ProjectID:    &suite.projectID,
		Subtotal:     decimal.NewFromInt(1000),
		CurrencyCode: "USD",
	}

	suite.mockPartyRepo.On("FindCustomerByID", ctx, suite.customerID).Return(&domain.Party{PartyID: suite.customerID}, nil).Once()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(&domain.Project{ProjectID: suite.projectID}, nil).Once()
	suite.mockRateSvc.On("ResolveRate", ctx, "USD", "USD").Return(decimal.NewFromInt(1), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "INV", suite.invoiceDate).Return(int64(3), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "JE", suite.invoiceDate).Return(int64(8), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1100", "4900"}).Return(suite.accountsFor("1100", "4900"), nil).Once()

	var capturedDelta decimal.Decimal
	suite.mockInvoiceRepo.On("CreateInvoiceWithPosting", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedDelta = args.Get(3).(decimal.Decimal)
		}).
		Return(&domain.Invoice{InvoiceID: 80, Type: domain.Receivable}, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().NoError(err)
	// Spend accrues for any invoice type once a project is linked
	suite.True(capturedDelta.Equal(decimal.NewFromInt(1000)))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockProjectRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_ConvertsToBaseCurrency() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Receivable,
		InvoiceDate:  suite.invoiceDate,
		CustomerID:   &suite.customerID,
		Subtotal:     decimal.NewFromInt(200),
		CurrencyCode: "EUR",
	}

	suite.mockPartyRepo.On("FindCustomerByID", ctx, suite.customerID).Return(&domain.Party{PartyID: suite.customerID}, nil).Once()
	suite.mockRateSvc.On("ResolveRate", ctx, "EUR", "USD").Return(decimal.NewFromFloat(1.1), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "INV", suite.invoiceDate).Return(int64(2), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "JE", suite.invoiceDate).Return(int64(2), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1100", "4900"}).Return(suite.accountsFor("1100", "4900"), nil).Once()

	var capturedInvoice domain.Invoice
	var capturedPosting portsrepo.LedgerPosting
	suite.mockInvoiceRepo.On("CreateInvoiceWithPosting", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedInvoice = args.Get(1).(domain.Invoice)
			capturedPosting = args.Get(2).(portsrepo.LedgerPosting)
		}).
		Return(&domain.Invoice{InvoiceID: 79}, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().NoError(err)
	// The invoice keeps its own currency; only the ledger posting converts
	suite.True(capturedInvoice.TotalAmount.Equal(decimal.NewFromInt(200)))
	suite.Equal("EUR", capturedInvoice.CurrencyCode)
	suite.True(capturedPosting.Lines[0].DebitAmount.Equal(decimal.NewFromInt(220)))
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_MissingCustomer() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Receivable,
		InvoiceDate:  suite.invoiceDate,
		Subtotal:     decimal.NewFromInt(100),
		CurrencyCode: "USD",
	}

	_, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingCustomer)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoiceWithPosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_MissingVendor() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Payable,
		InvoiceDate:  suite.invoiceDate,
		Subtotal:     decimal.NewFromInt(100),
		CurrencyCode: "USD",
	}

	_, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrMissingVendor)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_NonPositiveSubtotal() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Receivable,
		InvoiceDate:  suite.invoiceDate,
		CustomerID:   &suite.customerID,
		Subtotal:     decimal.Zero,
		CurrencyCode: "USD",
	}

	_, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RateUnavailable() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		Type:         domain.Receivable,
		InvoiceDate:  suite.invoiceDate,
		CustomerID:   &suite.customerID,
		Subtotal:     decimal.NewFromInt(100),
		CurrencyCode: "GBP",
	}

	suite.mockPartyRepo.On("FindCustomerByID", ctx, suite.customerID).Return(&domain.Party{PartyID: suite.customerID}, nil).Once()
	suite.mockRateSvc.On("ResolveRate", ctx, "GBP", "USD").
		Return(decimal.Zero, apperrors.ErrRateUnavailable).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoiceWithPosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_Receivable() {
	ctx := context.Background()
	invoiceID := int64(77)
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-20250701-001",
		Type:          domain.Receivable,
		TotalAmount:   decimal.NewFromInt(1100),
		CurrencyCode:  "USD",
		Status:        domain.InvoicePending,
	}
	paymentDate := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	req := dto.CreatePaymentRequest{
		PaymentDate:   paymentDate,
		Amount:        decimal.NewFromInt(1100),
		CurrencyCode:  "USD",
		PaymentMethod: "bank_transfer",
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockRateSvc.On("ResolveRate", ctx, "USD", "USD").Return(decimal.NewFromInt(1), nil).Twice()
	suite.mockSequenceRepo.On("NextNumber", ctx, "PAY", paymentDate).Return(int64(1), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "JE", paymentDate).Return(int64(5), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1000", "1100"}).Return(suite.accountsFor("1000", "1100"), nil).Once()

	var capturedPayment domain.Payment
	var capturedPosting portsrepo.LedgerPosting
	var capturedThreshold decimal.Decimal
	suite.mockInvoiceRepo.On("CreatePaymentWithPosting", ctx, mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("repositories.LedgerPosting"), mock.AnythingOfType("decimal.Decimal")).
		Run(func(args mock.Arguments) {
			capturedPayment = args.Get(1).(domain.Payment)
			capturedPosting = args.Get(2).(portsrepo.LedgerPosting)
			capturedThreshold = args.Get(3).(decimal.Decimal)
		}).
		Return(&domain.Payment{PaymentID: 9, PaymentNumber: "PAY-20250710-001"}, true, nil).Once()

	payment, err := suite.service.RecordPayment(ctx, invoiceID, req, suite.caller)

	suite.Require().NoError(err)
	suite.Equal(int64(9), payment.PaymentID)

	suite.Equal("PAY-20250710-001", capturedPayment.PaymentNumber)
	suite.True(capturedPayment.ExchangeRate.Equal(decimal.NewFromInt(1)))

	// Cash in, receivable cleared
	suite.Equal(suite.ledgerAccounts["1000"].AccountID, capturedPosting.Lines[0].AccountID)
	suite.True(capturedPosting.Lines[0].DebitAmount.Equal(decimal.NewFromInt(1100)))
	suite.Equal(suite.ledgerAccounts["1100"].AccountID, capturedPosting.Lines[1].AccountID)

	// Settlement threshold is 99% of the invoice total
	suite.True(capturedThreshold.Equal(decimal.NewFromInt(1089)))

	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_PayableMovesCashOut() {
	ctx := context.Background()
	invoiceID := int64(78)
	invoice := &domain.Invoice{
		InvoiceID:    invoiceID,
		Type:         domain.Payable,
		TotalAmount:  decimal.NewFromInt(500),
		CurrencyCode: "USD",
		Status:       domain.InvoicePending,
	}
	paymentDate := time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)
	req := dto.CreatePaymentRequest{
		PaymentDate:   paymentDate,
		Amount:        decimal.NewFromInt(500),
		CurrencyCode:  "USD",
		PaymentMethod: "check",
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockRateSvc.On("ResolveRate", ctx, "USD", "USD").Return(decimal.NewFromInt(1), nil).Twice()
	suite.mockSequenceRepo.On("NextNumber", ctx, "PAY", paymentDate).Return(int64(2), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "JE", paymentDate).Return(int64(6), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"2000", "1000"}).Return(suite.accountsFor("2000", "1000"), nil).Once()

	var capturedPosting portsrepo.LedgerPosting
	suite.mockInvoiceRepo.On("CreatePaymentWithPosting", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedPosting = args.Get(2).(portsrepo.LedgerPosting)
		}).
		Return(&domain.Payment{PaymentID: 10}, true, nil).Once()

	_, err := suite.service.RecordPayment(ctx, invoiceID, req, suite.caller)

	suite.Require().NoError(err)
	// Payable cleared with a debit, cash credited out
	suite.Equal(suite.ledgerAccounts["2000"].AccountID, capturedPosting.Lines[0].AccountID)
	suite.True(capturedPosting.Lines[0].DebitAmount.Equal(decimal.NewFromInt(500)))
	suite.Equal(suite.ledgerAccounts["1000"].AccountID, capturedPosting.Lines[1].AccountID)
	suite.True(capturedPosting.Lines[1].CreditAmount.Equal(decimal.NewFromInt(500)))
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_ExplicitRateOverridesStored() {
	ctx := context.Background()
	invoiceID := int64(81)
	invoice := &domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: "INV-20250701-002",
		Type:          domain.Receivable,
		TotalAmount:   decimal.NewFromInt(1000),
		CurrencyCode:  "GBP",
		Status:        domain.InvoicePending,
	}
	paymentDate := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	explicitRate := decimal.NewFromFloat(0.85)
	req := dto.CreatePaymentRequest{
		PaymentDate:   paymentDate,
		Amount:        decimal.NewFromInt(400),
		CurrencyCode:  "EUR",
		ExchangeRate:  &explicitRate,
		PaymentMethod: "bank_transfer",
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	// Only the base-currency leg consults the stored rates
	suite.mockRateSvc.On("ResolveRate", ctx, "EUR", "USD").Return(decimal.NewFromFloat(1.1), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "PAY", paymentDate).Return(int64(3), nil).Once()
	suite.mockSequenceRepo.On("NextNumber", ctx, "JE", paymentDate).Return(int64(7), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"1000", "1100"}).Return(suite.accountsFor("1000", "1100"), nil).Once()

	var capturedPayment domain.Payment
	var capturedPosting portsrepo.LedgerPosting
	suite.mockInvoiceRepo.On("CreatePaymentWithPosting", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedPayment = args.Get(1).(domain.Payment)
			capturedPosting = args.Get(2).(portsrepo.LedgerPosting)
		}).
		Return(&domain.Payment{PaymentID: 11}, false, nil).Once()

	_, err := suite.service.RecordPayment(ctx, invoiceID, req, suite.caller)

	suite.Require().NoError(err)
	suite.True(capturedPayment.ExchangeRate.Equal(explicitRate))
	// The posting still converts at the base-currency rate
	suite.True(capturedPosting.Lines[0].DebitAmount.Equal(decimal.NewFromInt(440)))
	suite.mockRateSvc.AssertNotCalled(suite.T(), "ResolveRate", ctx, "EUR", "GBP")
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockRateSvc.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_NonPositiveExplicitRate() {
	ctx := context.Background()
	invoiceID := int64(81)
	invoice := &domain.Invoice{
		InvoiceID:    invoiceID,
		Type:         domain.Receivable,
		TotalAmount:  decimal.NewFromInt(1000),
		CurrencyCode: "GBP",
		Status:       domain.InvoicePending,
	}
	badRate := decimal.Zero
	req := dto.CreatePaymentRequest{
		PaymentDate:   time.Now(),
		Amount:        decimal.NewFromInt(400),
		CurrencyCode:  "EUR",
		ExchangeRate:  &badRate,
		PaymentMethod: "bank_transfer",
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()

	_, err := suite.service.RecordPayment(ctx, invoiceID, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreatePaymentWithPosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_AlreadyPaid() {
	ctx := context.Background()
	invoiceID := int64(77)
	invoice := &domain.Invoice{
		InvoiceID:    invoiceID,
		Type:         domain.Receivable,
		TotalAmount:  decimal.NewFromInt(1100),
		CurrencyCode: "USD",
		Status:       domain.InvoicePaid,
	}
	req := dto.CreatePaymentRequest{
		PaymentDate:   time.Now(),
		Amount:        decimal.NewFromInt(100),
		CurrencyCode:  "USD",
		PaymentMethod: "cash",
	}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()

	_, err := suite.service.RecordPayment(ctx, invoiceID, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvoiceSettled)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreatePaymentWithPosting", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreatePaymentRequest{
		PaymentDate:   time.Now(),
		Amount:        decimal.NewFromInt(-5),
		CurrencyCode:  "USD",
		PaymentMethod: "cash",
	}

	_, err := suite.service.RecordPayment(ctx, int64(77), req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNonPositiveAmount)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "FindInvoiceByID", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_LoadsPayments() {
	ctx := context.Background()
	invoiceID := int64(77)
	invoice := &domain.Invoice{InvoiceID: invoiceID, Type: domain.Receivable}
	payments := []domain.Payment{{PaymentID: 1, InvoiceID: invoiceID}}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("FindPaymentsByInvoiceID", ctx, invoiceID).Return(payments, nil).Once()

	got, err := suite.service.GetInvoiceByID(ctx, invoiceID)

	suite.Require().NoError(err)
	suite.Len(got.Payments, 1)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestMarkOverdueInvoices() {
	ctx := context.Background()
	asOf := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	suite.mockInvoiceRepo.On("MarkOverdueInvoices", ctx, asOf).Return(int64(3), nil).Once()

	updated, err := suite.service.MarkOverdueInvoices(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(int64(3), updated)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
