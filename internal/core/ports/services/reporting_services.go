package services

import (
	"context"
	"time"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// ProfitAndLoss generates a profit and loss report for a specific period
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error)

	// CashFlow generates a cash flow report for a specific period
	CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error)

	// CashFlowForecast projects net operating cash flow for the coming months
	// from the trailing six-month average
	CashFlowForecast(ctx context.Context, asOf time.Time, months int) (*domain.CashFlowForecast, error)
}
