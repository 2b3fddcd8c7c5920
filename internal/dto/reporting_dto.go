package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID int64           `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets               decimal.Decimal `json:"totalAssets"`
		TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
		TotalEquity               decimal.Decimal `json:"totalEquity"`
		TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
	} `json:"summary"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Revenue  []AccountAmountResponse `json:"revenue"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetIncome     decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// CashFlowItemResponse is a dated movement within a cash flow section
type CashFlowItemResponse struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// CashFlowResponse represents the cash flow report response
type CashFlowResponse struct {
	FromDate  string                 `json:"fromDate"`
	ToDate    string                 `json:"toDate"`
	Operating []CashFlowItemResponse `json:"operating"`
	Investing []CashFlowItemResponse `json:"investing"`
	Financing []CashFlowItemResponse `json:"financing"`
	Summary   struct {
		OperatingTotal decimal.Decimal `json:"operatingTotal"`
		InvestingTotal decimal.Decimal `json:"investingTotal"`
		FinancingTotal decimal.Decimal `json:"financingTotal"`
		NetCashFlow    decimal.Decimal `json:"netCashFlow"`
	} `json:"summary"`
}

// MonthlyCashFlowResponse is one month's net operating flow
type MonthlyCashFlowResponse struct {
	Month       string          `json:"month"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
}

// CashFlowForecastResponse represents the cash flow forecast response
type CashFlowForecastResponse struct {
	Historical    []MonthlyCashFlowResponse `json:"historical"`
	MovingAverage decimal.Decimal           `json:"movingAverage"`
	Forecast      []MonthlyCashFlowResponse `json:"forecast"`
}

func toAccountAmountResponses(rows []domain.AccountAmount) []AccountAmountResponse {
	responses := make([]AccountAmountResponse, len(rows))
	for i, row := range rows {
		responses[i] = AccountAmountResponse{
			AccountID: row.AccountID,
			Code:      row.Code,
			Name:      row.Name,
			Amount:    row.Amount,
		}
	}
	return responses
}

func toCashFlowItemResponses(items []domain.CashFlowItem) []CashFlowItemResponse {
	responses := make([]CashFlowItemResponse, len(items))
	for i, item := range items {
		responses[i] = CashFlowItemResponse{
			Date:   item.Date.Format("2006-01-02"),
			Amount: item.Amount,
		}
	}
	return responses
}

// ToBalanceSheetResponse converts a domain balance sheet report to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        report.AsOf.Format("2006-01-02"),
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
		Equity:      toAccountAmountResponses(report.Equity),
	}

	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.TotalLiabilitiesAndEquity = report.TotalLiabilitiesAndEquity

	return response
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: report.From.Format("2006-01-02"),
		ToDate:   report.To.Format("2006-01-02"),
		Revenue:  toAccountAmountResponses(report.Revenue),
		Expenses: toAccountAmountResponses(report.Expenses),
	}

	response.Summary.TotalRevenue = report.TotalRevenue
	response.Summary.TotalExpenses = report.TotalExpenses
	response.Summary.NetIncome = report.NetIncome

	return response
}

// ToCashFlowResponse converts a domain cash flow report to a DTO response
func ToCashFlowResponse(report *domain.CashFlowReport) CashFlowResponse {
	response := CashFlowResponse{
		FromDate:  report.From.Format("2006-01-02"),
		ToDate:    report.To.Format("2006-01-02"),
		Operating: toCashFlowItemResponses(report.Operating),
		Investing: toCashFlowItemResponses(report.Investing),
		Financing: toCashFlowItemResponses(report.Financing),
	}

	response.Summary.OperatingTotal = report.OperatingTotal
	response.Summary.InvestingTotal = report.InvestingTotal
	response.Summary.FinancingTotal = report.FinancingTotal
	response.Summary.NetCashFlow = report.NetCashFlow

	return response
}

// ToCashFlowForecastResponse converts a domain forecast to a DTO response
func ToCashFlowForecastResponse(forecast *domain.CashFlowForecast) CashFlowForecastResponse {
	toMonthly := func(flows []domain.MonthlyCashFlow) []MonthlyCashFlowResponse {
		responses := make([]MonthlyCashFlowResponse, len(flows))
		for i, flow := range flows {
			responses[i] = MonthlyCashFlowResponse{
				Month:       flow.Month.Format("2006-01"),
				NetCashFlow: flow.NetCashFlow,
			}
		}
		return responses
	}

	return CashFlowForecastResponse{
		Historical:    toMonthly(forecast.Historical),
		MovingAverage: forecast.MovingAverage,
		Forecast:      toMonthly(forecast.Forecast),
	}
}

// ReportPeriodParams defines the query parameters for period-based reports.
type ReportPeriodParams struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}
