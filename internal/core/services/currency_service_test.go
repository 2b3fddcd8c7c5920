package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/core/services"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

var _ portsrepo.CurrencyRepository = (*MockCurrencyRepository)(nil)

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite Setup ---
type CurrencyServiceTestSuite struct {
	suite.Suite
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.CurrencySvcFacade
	caller           domain.Caller
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.mockCurrencyRepo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.mockCurrencyRepo)
	suite.caller = domain.Caller{UserID: 2, Role: "admin"}
}

// --- Test Cases ---

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_Success() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "eur", Symbol: "€", Name: "Euro"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "EUR").Return(nil, apperrors.ErrNotFound).Once()

	var capturedCurrency domain.Currency
	suite.mockCurrencyRepo.On("SaveCurrency", ctx, mock.AnythingOfType("domain.Currency")).
		Run(func(args mock.Arguments) {
			capturedCurrency = args.Get(1).(domain.Currency)
		}).
		Return(nil).Once()

	currency, err := suite.service.CreateCurrency(ctx, req, suite.caller)

	suite.Require().NoError(err)
	// The code is stored uppercased regardless of input casing
	suite.Equal("EUR", currency.CurrencyCode)
	suite.Equal("EUR", capturedCurrency.CurrencyCode)
	suite.Equal(suite.caller.UserID, capturedCurrency.CreatedBy)
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestCreateCurrency_AlreadyExists() {
	ctx := context.Background()
	req := dto.CreateCurrencyRequest{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").
		Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()

	_, err := suite.service.CreateCurrency(ctx, req, suite.caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "SaveCurrency", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_InvalidLength() {
	ctx := context.Background()

	_, err := suite.service.GetCurrencyByCode(ctx, "EURO")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCurrencyRepo.AssertNotCalled(suite.T(), "FindCurrencyByCode", mock.Anything, mock.Anything)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_NotFound() {
	ctx := context.Background()
	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "JPY").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetCurrencyByCode(ctx, "jpy")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CurrencyServiceTestSuite) TestListCurrencies() {
	ctx := context.Background()
	currencies := []domain.Currency{{CurrencyCode: "USD"}, {CurrencyCode: "EUR"}}

	suite.mockCurrencyRepo.On("ListCurrencies", ctx).Return(currencies, nil).Once()

	got, err := suite.service.ListCurrencies(ctx)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

// --- Run Test Suite ---
func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
