package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	"github.com/sitebooks/sitebooks/internal/models"
	"github.com/sitebooks/sitebooks/internal/utils/mapping"
)

const exchangeRateColumns = `exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by`

type PgxExchangeRateRepository struct {
	pool *pgxpool.Pool
}

// newPgxExchangeRateRepository creates a new repository for exchange rate data.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepository {
	return &PgxExchangeRateRepository{pool: pool}
}

// Ensure PgxExchangeRateRepository implements portsrepo.ExchangeRateRepository
var _ portsrepo.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

func scanExchangeRate(row rowScanner) (models.ExchangeRate, error) {
	var modelRate models.ExchangeRate
	err := row.Scan(
		&modelRate.ExchangeRateID,
		&modelRate.FromCurrencyCode,
		&modelRate.ToCurrencyCode,
		&modelRate.Rate,
		&modelRate.DateEffective,
		&modelRate.CreatedAt,
		&modelRate.CreatedBy,
		&modelRate.LastUpdatedAt,
		&modelRate.LastUpdatedBy,
	)
	if err != nil {
		return models.ExchangeRate{}, err
	}
	return modelRate, nil
}

// SaveExchangeRate inserts a new rate and returns it with its generated ID.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) (*domain.ExchangeRate, error) {
	modelRate := mapping.ToModelExchangeRate(rate)

	query := `
		INSERT INTO exchange_rates (from_currency_code, to_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING exchange_rate_id;
	`
	err := r.pool.QueryRow(ctx, query,
		modelRate.FromCurrencyCode,
		modelRate.ToCurrencyCode,
		modelRate.Rate,
		modelRate.DateEffective,
		modelRate.CreatedAt,
		modelRate.CreatedBy,
		modelRate.LastUpdatedAt,
		modelRate.LastUpdatedBy,
	).Scan(&modelRate.ExchangeRateID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: rate for %s to %s effective %s already exists",
				apperrors.ErrDuplicate, modelRate.FromCurrencyCode, modelRate.ToCurrencyCode, modelRate.DateEffective.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to save exchange rate %s to %s: %w", modelRate.FromCurrencyCode, modelRate.ToCurrencyCode, err)
	}

	saved := mapping.ToDomainExchangeRate(modelRate)
	return &saved, nil
}

// FindLatestRate retrieves the most recent effective rate for the exact
// currency pair.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + exchangeRateColumns + `
		FROM exchange_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY date_effective DESC, exchange_rate_id DESC
		LIMIT 1;
	`
	modelRate, err := scanExchangeRate(r.pool.QueryRow(ctx, query, fromCurrencyCode, toCurrencyCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find rate %s to %s: %w", fromCurrencyCode, toCurrencyCode, err)
	}

	domainRate := mapping.ToDomainExchangeRate(modelRate)
	return &domainRate, nil
}

// ListExchangeRates retrieves all rates, newest effective date first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	query := `SELECT ` + exchangeRateColumns + ` FROM exchange_rates ORDER BY date_effective DESC, exchange_rate_id DESC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	modelRates := []models.ExchangeRate{}
	for rows.Next() {
		modelRate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		modelRates = append(modelRates, modelRate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate rows: %w", err)
	}

	return mapping.ToDomainExchangeRateSlice(modelRates), nil
}
