package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface.
// Every figure is replayed from transaction lines rather than read from the
// accounts.balance column, so historical report dates stay accurate.
// Rejected entries are excluded throughout.
type reportingRepository struct {
	BaseRepository
}

// Account code conventions the cash flow statement keys on.
const (
	equipmentAccountCode = "1300"
)

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure reportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func collectAccountAmounts(rows pgx.Rows) ([]domain.AccountAmount, error) {
	result := []domain.AccountAmount{}
	for rows.Next() {
		var row domain.AccountAmount
		if err := rows.Scan(&row.AccountID, &row.Code, &row.Name, &row.Amount); err != nil {
			return nil, fmt.Errorf("error scanning account amount row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account amount rows: %w", err)
	}
	return result, nil
}

func collectCashFlowItems(rows pgx.Rows) ([]domain.CashFlowItem, error) {
	result := []domain.CashFlowItem{}
	for rows.Next() {
		var item domain.CashFlowItem
		if err := rows.Scan(&item.Date, &item.Amount); err != nil {
			return nil, fmt.Errorf("error scanning cash flow row: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash flow rows: %w", err)
	}
	return result, nil
}

// replayedAmountsQuery builds the replay aggregation for one account type.
// debitMinusCredit selects the sign convention: true for Asset and Expense
// accounts, false for Liability, Equity and Revenue. The status and date
// predicates sit inside the line subquery: hung off an outer LEFT JOIN they
// would only null out the entry columns while every line stays in the SUM.
func replayedAmountsQuery(debitMinusCredit bool, dateCondition string) string {
	net := `t.credit_amount - t.debit_amount`
	if debitMinusCredit {
		net = `t.debit_amount - t.credit_amount`
	}

	return fmt.Sprintf(`
		SELECT
			a.account_id,
			a.code,
			a.name,
			COALESCE(SUM(l.net), 0) AS amount
		FROM accounts a
		LEFT JOIN (
			SELECT t.account_id, %s AS net
			FROM transaction_lines t
			JOIN journal_entries j ON j.entry_id = t.entry_id
			WHERE j.status <> 'Rejected' %s
		) l ON l.account_id = a.account_id
		WHERE a.account_type = $1
		GROUP BY a.account_id, a.code, a.name
		ORDER BY a.code;
	`, net, dateCondition)
}

// replayedAmountsByType sums lines for accounts of one type.
func (r *reportingRepository) replayedAmountsByType(ctx context.Context, accountType domain.AccountType, debitMinusCredit bool, dateCondition string, dateArgs ...any) ([]domain.AccountAmount, error) {
	query := replayedAmountsQuery(debitMinusCredit, dateCondition)

	args := append([]any{string(accountType)}, dateArgs...)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s amounts: %w", accountType, err)
	}
	defer rows.Close()

	return collectAccountAmounts(rows)
}

// GetBalanceSheetData retrieves asset, liability and equity amounts as of a
// specific date.
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	const dateCondition = `AND j.entry_date <= $2`

	assets, err := r.replayedAmountsByType(ctx, domain.Asset, true, dateCondition, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	liabilities, err := r.replayedAmountsByType(ctx, domain.Liability, false, dateCondition, asOf)
	if err != nil {
		return nil, nil, nil, err
	}
	equity, err := r.replayedAmountsByType(ctx, domain.Equity, false, dateCondition, asOf)
	if err != nil {
		return nil, nil, nil, err
	}

	return assets, liabilities, equity, nil
}

// GetProfitAndLossData retrieves revenue and expense amounts for a period.
func (r *reportingRepository) GetProfitAndLossData(ctx context.Context, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	const dateCondition = `AND j.entry_date BETWEEN $2 AND $3`

	revenue, err := r.replayedAmountsByType(ctx, domain.Revenue, false, dateCondition, from, to)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := r.replayedAmountsByType(ctx, domain.Expense, true, dateCondition, from, to)
	if err != nil {
		return nil, nil, err
	}

	return revenue, expenses, nil
}

// GetOperatingCashFlows retrieves dated payment movements, signed positive
// for money received on receivables and negative for money sent on payables,
// converted to the invoice currency at each payment's captured rate.
func (r *reportingRepository) GetOperatingCashFlows(ctx context.Context, from, to time.Time) ([]domain.CashFlowItem, error) {
	query := `
		SELECT
			p.payment_date,
			CASE
				WHEN i.type = 'receivable' THEN p.amount * p.exchange_rate
				ELSE -(p.amount * p.exchange_rate)
			END AS amount
		FROM payments p
		JOIN invoices i ON i.invoice_id = p.invoice_id
		WHERE p.payment_date BETWEEN $1 AND $2
		ORDER BY p.payment_date, p.payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying operating cash flows: %w", err)
	}
	defer rows.Close()

	return collectCashFlowItems(rows)
}

// GetInvestingCashFlows retrieves equipment purchases as outflows.
func (r *reportingRepository) GetInvestingCashFlows(ctx context.Context, from, to time.Time) ([]domain.CashFlowItem, error) {
	query := `
		SELECT
			j.entry_date,
			-t.debit_amount AS amount
		FROM transaction_lines t
		JOIN journal_entries j ON j.entry_id = t.entry_id AND j.status <> 'Rejected'
		JOIN accounts a ON a.account_id = t.account_id
		WHERE a.code = $1 AND j.entry_date BETWEEN $2 AND $3
		ORDER BY j.entry_date, t.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, equipmentAccountCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying investing cash flows: %w", err)
	}
	defer rows.Close()

	return collectCashFlowItems(rows)
}

// GetFinancingCashFlows retrieves credits to liability and equity accounts
// as inflows.
func (r *reportingRepository) GetFinancingCashFlows(ctx context.Context, from, to time.Time) ([]domain.CashFlowItem, error) {
	query := `
		SELECT
			j.entry_date,
			t.credit_amount AS amount
		FROM transaction_lines t
		JOIN journal_entries j ON j.entry_id = t.entry_id AND j.status <> 'Rejected'
		JOIN accounts a ON a.account_id = t.account_id
		WHERE (a.code LIKE '2%' OR a.code LIKE '3%') AND j.entry_date BETWEEN $1 AND $2
		ORDER BY j.entry_date, t.line_id;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying financing cash flows: %w", err)
	}
	defer rows.Close()

	return collectCashFlowItems(rows)
}

// GetMonthlyOperatingFlows retrieves net operating cash flow per calendar
// month for the trailing window ending at asOf, oldest month first. Months
// with no payments are simply absent.
func (r *reportingRepository) GetMonthlyOperatingFlows(ctx context.Context, asOf time.Time, months int) ([]domain.MonthlyCashFlow, error) {
	windowStart := asOf.AddDate(0, -months, 0)

	query := `
		SELECT
			date_trunc('month', p.payment_date) AS month,
			SUM(CASE
				WHEN i.type = 'receivable' THEN p.amount * p.exchange_rate
				ELSE -(p.amount * p.exchange_rate)
			END) AS net_cash_flow
		FROM payments p
		JOIN invoices i ON i.invoice_id = p.invoice_id
		WHERE p.payment_date >= $1 AND p.payment_date <= $2
		GROUP BY date_trunc('month', p.payment_date)
		ORDER BY month;
	`
	rows, err := r.Pool.Query(ctx, query, windowStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly operating flows: %w", err)
	}
	defer rows.Close()

	result := []domain.MonthlyCashFlow{}
	for rows.Next() {
		var row domain.MonthlyCashFlow
		if err := rows.Scan(&row.Month, &row.NetCashFlow); err != nil {
			return nil, fmt.Errorf("error scanning monthly flow row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly flow rows: %w", err)
	}

	return result, nil
}
