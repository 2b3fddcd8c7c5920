package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
)

// forecastWindowMonths is how much history feeds the moving average.
const forecastWindowMonths = 6

// reportingService generates financial reports by replaying posted
// transaction lines.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: reportingRepo}
}

// Ensure reportingService implements the portssvc.ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func sumAmounts(rows []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total
}

func sumFlows(items []domain.CashFlowItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// BalanceSheet generates a balance sheet as of a specific date. Amounts come
// from replaying lines dated on or before asOf, so past dates report the
// ledger as it stood then.
// Implements portssvc.ReportingService
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to get balance sheet data", slog.Time("as_of", asOf))
		return nil, fmt.Errorf("failed to generate balance sheet: %w", err)
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      sumAmounts(assets),
		TotalLiabilities: sumAmounts(liabilities),
		TotalEquity:      sumAmounts(equity),
	}
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity)

	return report, nil
}

// ProfitAndLoss generates a profit and loss report for a period.
// Implements portssvc.ReportingService
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: report period end precedes start", apperrors.ErrValidation)
	}

	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to get profit and loss data")
		return nil, fmt.Errorf("failed to generate profit and loss report: %w", err)
	}

	report := &domain.PAndLReport{
		From:          from,
		To:            to,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  sumAmounts(revenue),
		TotalExpenses: sumAmounts(expenses),
	}
	report.NetIncome = report.TotalRevenue.Sub(report.TotalExpenses)

	return report, nil
}

// CashFlow generates a cash flow report for a period, split into operating,
// investing and financing activity.
// Implements portssvc.ReportingService
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: report period end precedes start", apperrors.ErrValidation)
	}

	operating, err := s.reportingRepo.GetOperatingCashFlows(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to get operating cash flows")
		return nil, fmt.Errorf("failed to generate cash flow report: %w", err)
	}
	investing, err := s.reportingRepo.GetInvestingCashFlows(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to get investing cash flows")
		return nil, fmt.Errorf("failed to generate cash flow report: %w", err)
	}
	financing, err := s.reportingRepo.GetFinancingCashFlows(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to get financing cash flows")
		return nil, fmt.Errorf("failed to generate cash flow report: %w", err)
	}

	report := &domain.CashFlowReport{
		From:           from,
		To:             to,
		Operating:      operating,
		Investing:      investing,
		Financing:      financing,
		OperatingTotal: sumFlows(operating),
		InvestingTotal: sumFlows(investing),
		FinancingTotal: sumFlows(financing),
	}
	report.NetCashFlow = report.OperatingTotal.Add(report.InvestingTotal).Add(report.FinancingTotal)

	return report, nil
}

// CashFlowForecast projects net operating cash flow for the coming months
// from the trailing six-month moving average.
// Implements portssvc.ReportingService
func (s *reportingService) CashFlowForecast(ctx context.Context, asOf time.Time, months int) (*domain.CashFlowForecast, error) {
	if months <= 0 {
		months = 3
	}

	historical, err := s.reportingRepo.GetMonthlyOperatingFlows(ctx, asOf, forecastWindowMonths)
	if err != nil {
		s.LogError(ctx, err, "Failed to get monthly operating flows")
		return nil, fmt.Errorf("failed to generate cash flow forecast: %w", err)
	}

	average := decimal.Zero
	if len(historical) > 0 {
		total := decimal.Zero
		for _, flow := range historical {
			total = total.Add(flow.NetCashFlow)
		}
		average = total.Div(decimal.NewFromInt(int64(len(historical))))
	}

	// Project forward from the first day of the month after asOf
	start := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	forecast := make([]domain.MonthlyCashFlow, months)
	for i := 0; i < months; i++ {
		forecast[i] = domain.MonthlyCashFlow{
			Month:       start.AddDate(0, i, 0),
			NetCashFlow: average,
		}
	}

	return &domain.CashFlowForecast{
		Historical:    historical,
		MovingAverage: average,
		Forecast:      forecast,
	}, nil
}
