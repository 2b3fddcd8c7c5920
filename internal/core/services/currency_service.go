package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// currencyService provides business logic for currencies.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepository
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepository) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

// Ensure currencyService implements the portssvc.CurrencySvcFacade interface
var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// CreateCurrency persists a new currency.
// Implements portssvc.CurrencyWriterSvc
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, caller domain.Caller) (*domain.Currency, error) {
	code := strings.ToUpper(req.CurrencyCode)

	if existing, err := s.currencyRepo.FindCurrencyByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("currency %s already exists: %w", code, apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency %s: %w", code, err)
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: code,
		Symbol:       req.Symbol,
		Name:         req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", code))
		return nil, fmt.Errorf("failed to save currency: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", code))
	return &currency, nil
}

// GetCurrencyByCode retrieves a specific currency by its code.
// Implements portssvc.CurrencyReaderSvc
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code := strings.ToUpper(currencyCode)
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency %s: %w", code, err)
	}
	return currency, nil
}

// ListCurrencies retrieves all available currencies.
// Implements portssvc.CurrencyReaderSvc
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list currencies")
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}
