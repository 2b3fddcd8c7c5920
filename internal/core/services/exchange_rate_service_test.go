package services_test

import (
	"context"
	"testing"
	"time"

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

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

var _ portsrepo.ExchangeRateRepository = (*MockExchangeRateRepository)(nil)

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Error(1)
}

// --- Mock CurrencyReaderSvc ---
type MockCurrencyReaderService struct {
	mock.Mock
}

var _ portssvc.CurrencyReaderSvc = (*MockCurrencyReaderService)(nil)

func (m *MockCurrencyReaderService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyReaderService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite Setup ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo    *MockExchangeRateRepository
	mockCurrencySvc *MockCurrencyReaderService
	service         portssvc.ExchangeRateSvcFacade
	caller          domain.Caller
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockCurrencySvc = new(MockCurrencyReaderService)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, suite.mockCurrencySvc)
	suite.caller = domain.Caller{UserID: 1, Role: "accountant"}
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromFloat(1.09),
		DateEffective:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "EUR").Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockRateRepo.On("SaveExchangeRate", ctx, mock.AnythingOfType("domain.ExchangeRate")).
		Return(&domain.ExchangeRate{ExchangeRateID: 1, FromCurrencyCode: "EUR", ToCurrencyCode: "USD", Rate: req.Rate}, nil).Once()

	rate, err := suite.service.CreateExchangeRate(ctx, req, suite.caller)

	suite.Require().NoError(err)
	suite.Equal(int64(1), rate.ExchangeRateID)
	suite.mockRateRepo.AssertExpectations(suite.T())
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_NonPositiveRate() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.Zero,
		DateEffective:    time.Now(),
	}

	_, err := suite.service.CreateExchangeRate(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRate", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_SameCurrency() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromInt(1),
		DateEffective:    time.Now(),
	}

	_, err := suite.service.CreateExchangeRate(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestCreateExchangeRate_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateExchangeRateRequest{
		FromCurrencyCode: "XXX",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromInt(2),
		DateEffective:    time.Now(),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateExchangeRate(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_SameCurrencyIsExactlyOne() {
	ctx := context.Background()

	rate, err := suite.service.ResolveRate(ctx, "usd", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	// Identity conversion never consults storage
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindLatestRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_UsesLatestRate() {
	ctx := context.Background()
	stored := &domain.ExchangeRate{
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromFloat(1.12),
	}

	suite.mockRateRepo.On("FindLatestRate", ctx, "EUR", "USD").Return(stored, nil).Once()

	rate, err := suite.service.ResolveRate(ctx, "eur", "usd")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromFloat(1.12)))
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestResolveRate_MissingRateFails() {
	ctx := context.Background()

	suite.mockRateRepo.On("FindLatestRate", ctx, "GBP", "USD").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveRate(ctx, "GBP", "USD")

	// Missing rates fail loudly rather than assuming parity
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateUnavailable)
}

func (suite *ExchangeRateServiceTestSuite) TestGetExchangeRate_InvalidCode() {
	ctx := context.Background()

	_, err := suite.service.GetExchangeRate(ctx, "EURO", "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Run Test Suite ---
func TestExchangeRateService(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
