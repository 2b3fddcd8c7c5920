package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// exchangeRateService provides business logic for exchange rates.
type exchangeRateService struct {
	BaseService
	rateRepo    portsrepo.ExchangeRateRepository
	currencySvc portssvc.CurrencyReaderSvc
}

// NewExchangeRateService creates a new exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepository, currencySvc portssvc.CurrencyReaderSvc) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{
		rateRepo:    rateRepo,
		currencySvc: currencySvc,
	}
}

// Ensure exchangeRateService implements the portssvc.ExchangeRateSvcFacade interface
var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// CreateExchangeRate handles the creation of a new exchange rate.
// Implements portssvc.ExchangeRateWriterSvc
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, caller domain.Caller) (*domain.ExchangeRate, error) {
	// Input validation (basic format) is handled by DTO binding tags.
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	if req.FromCurrencyCode == req.ToCurrencyCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	// Check if currencies exist
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.FromCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'from' currency code '%s' not found", apperrors.ErrValidation, req.FromCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'from' currency '%s': %w", req.FromCurrencyCode, err)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, req.ToCurrencyCode); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: 'to' currency code '%s' not found", apperrors.ErrValidation, req.ToCurrencyCode)
		}
		return nil, fmt.Errorf("failed to validate 'to' currency '%s': %w", req.ToCurrencyCode, err)
	}

	now := time.Now().UTC()
	rate := domain.ExchangeRate{
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}

	saved, err := s.rateRepo.SaveExchangeRate(ctx, rate)
	if err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate",
			slog.String("from", req.FromCurrencyCode), slog.String("to", req.ToCurrencyCode))
		return nil, fmt.Errorf("failed to create exchange rate: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate created",
		slog.Int64("exchange_rate_id", saved.ExchangeRateID),
		slog.String("from", saved.FromCurrencyCode),
		slog.String("to", saved.ToCurrencyCode))
	return saved, nil
}

// GetExchangeRate retrieves the latest rate for a currency pair.
// Implements portssvc.ExchangeRateReaderSvc
func (s *exchangeRateService) GetExchangeRate(ctx context.Context, fromCode, toCode string) (*domain.ExchangeRate, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	rate, err := s.rateRepo.FindLatestRate(ctx, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate %s/%s: %w", fromCode, toCode, err)
	}
	return rate, nil
}

// ListExchangeRates retrieves all rates, newest effective date first.
// Implements portssvc.ExchangeRateReaderSvc
func (s *exchangeRateService) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	rates, err := s.rateRepo.ListExchangeRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}

// ResolveRate returns the multiplier converting fromCode amounts into toCode.
// Identical codes resolve to exactly 1 without touching the database. A
// missing rate is an error; assuming parity would corrupt converted totals.
// Implements portssvc.ExchangeRateReaderSvc
func (s *exchangeRateService) ResolveRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if fromCode == toCode {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.rateRepo.FindLatestRate(ctx, fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: no rate from %s to %s", apperrors.ErrRateUnavailable, fromCode, toCode)
		}
		return decimal.Zero, fmt.Errorf("failed to resolve rate %s/%s: %w", fromCode, toCode, err)
	}
	return rate.Rate, nil
}
