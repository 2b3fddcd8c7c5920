package repositories

import (
	"context"
	"time"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// ReportingRepository defines operations for retrieving financial report data.
// All figures are derived by replaying posted transaction lines, never from
// the running balance column, so historical dates report correctly.
type ReportingRepository interface {
	// GetBalanceSheetData retrieves asset, liability and equity amounts as of
	// a specific date, computed from lines dated on or before asOf.
	GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error)

	// GetProfitAndLossData retrieves revenue and expense amounts for a period.
	GetProfitAndLossData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error)

	// GetOperatingCashFlows retrieves signed cash account movements for a
	// period, excluding investing and financing flows.
	GetOperatingCashFlows(ctx context.Context, from, to time.Time) ([]domain.CashFlowItem, error)

	// GetInvestingCashFlows retrieves investing outflows for a period.
	GetInvestingCashFlows(ctx context.Context, from, to time.Time) ([]domain.CashFlowItem, error)

	// GetFinancingCashFlows retrieves financing inflows for a period.
	GetFinancingCashFlows(ctx context.Context, from, to time.Time) ([]domain.CashFlowItem, error)

	// GetMonthlyOperatingFlows retrieves net operating cash flow per calendar
	// month for the trailing window ending at asOf, oldest month first.
	GetMonthlyOperatingFlows(ctx context.Context, asOf time.Time, months int) ([]domain.MonthlyCashFlow, error)
}

// SequenceRepository hands out document numbers.
type SequenceRepository interface {
	// NextNumber atomically increments and returns the counter for the given
	// document kind and date. Safe under concurrent callers.
	NextNumber(ctx context.Context, kind string, date time.Time) (int64, error)
}
