package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountAmount represents an account with its amount in a financial report,
// ordered by account code within its section.
type AccountAmount struct {
	AccountID int64           `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// BalanceSheetReport groups account balances by type as of a date. Balances
// are replayed from transaction lines dated on or before the as-of date, not
// read from the live running totals.
type BalanceSheetReport struct {
	AsOf                      time.Time       `json:"asOf"`
	Assets                    []AccountAmount `json:"assets"`
	Liabilities               []AccountAmount `json:"liabilities"`
	Equity                    []AccountAmount `json:"equity"`
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
}

// PAndLReport represents a profit and loss statement over a date range.
type PAndLReport struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// CashFlowItem is a single dated movement within a cash flow section.
type CashFlowItem struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowReport splits cash movement into operating, investing and
// financing activities over a date range.
type CashFlowReport struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	Operating      []CashFlowItem  `json:"operating"`
	Investing      []CashFlowItem  `json:"investing"`
	Financing      []CashFlowItem  `json:"financing"`
	OperatingTotal decimal.Decimal `json:"operatingTotal"`
	InvestingTotal decimal.Decimal `json:"investingTotal"`
	FinancingTotal decimal.Decimal `json:"financingTotal"`
	NetCashFlow    decimal.Decimal `json:"netCashFlow"`
}

// MonthlyCashFlow is one month's net operating flow, used by the forecast.
type MonthlyCashFlow struct {
	Month       time.Time       `json:"month"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
}

// CashFlowForecast projects future months from a simple moving average of
// historical monthly net flows.
type CashFlowForecast struct {
	Historical    []MonthlyCashFlow `json:"historical"`
	MovingAverage decimal.Decimal   `json:"movingAverage"`
	Forecast      []MonthlyCashFlow `json:"forecast"`
}
