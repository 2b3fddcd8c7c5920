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

type PgxPartyRepository struct {
	pool *pgxpool.Pool
}

// newPgxPartyRepository creates a new repository for customer and vendor
// data. Both tables share one row shape, so one repository serves both.
func newPgxPartyRepository(pool *pgxpool.Pool) portsrepo.PartyRepository {
	return &PgxPartyRepository{pool: pool}
}

// Ensure PgxPartyRepository implements portsrepo.PartyRepository
var _ portsrepo.PartyRepository = (*PgxPartyRepository)(nil)

// partyColumnsFor builds the column list with the table's ID column aliased
// to a common name. Table names are fixed constants, never user input.
func partyColumnsFor(table string) string {
	return table[:len(table)-1] + `_id, name, contact_person, email, phone, address, tax_id, currency_code, created_at, created_by, last_updated_at, last_updated_by`
}

func scanParty(row rowScanner) (models.Party, error) {
	var modelParty models.Party
	err := row.Scan(
		&modelParty.PartyID,
		&modelParty.Name,
		&modelParty.ContactPerson,
		&modelParty.Email,
		&modelParty.Phone,
		&modelParty.Address,
		&modelParty.TaxID,
		&modelParty.CurrencyCode,
		&modelParty.CreatedAt,
		&modelParty.CreatedBy,
		&modelParty.LastUpdatedAt,
		&modelParty.LastUpdatedBy,
	)
	if err != nil {
		return models.Party{}, err
	}
	return modelParty, nil
}

func (r *PgxPartyRepository) saveParty(ctx context.Context, table string, party domain.Party) (*domain.Party, error) {
	modelParty := mapping.ToModelParty(party)

	query := `
		INSERT INTO ` + table + ` (name, contact_person, email, phone, address, tax_id, currency_code, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + table[:len(table)-1] + `_id;
	`
	err := r.pool.QueryRow(ctx, query,
		modelParty.Name,
		modelParty.ContactPerson,
		modelParty.Email,
		modelParty.Phone,
		modelParty.Address,
		modelParty.TaxID,
		modelParty.CurrencyCode,
		modelParty.CreatedAt,
		modelParty.CreatedBy,
		modelParty.LastUpdatedAt,
		modelParty.LastUpdatedBy,
	).Scan(&modelParty.PartyID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23503" { // Foreign key violation (currency_code)
				return nil, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, modelParty.CurrencyCode)
			}
		}
		return nil, fmt.Errorf("failed to save %s %s: %w", table[:len(table)-1], modelParty.Name, err)
	}

	saved := mapping.ToDomainParty(modelParty)
	return &saved, nil
}

func (r *PgxPartyRepository) findPartyByID(ctx context.Context, table string, partyID int64) (*domain.Party, error) {
	query := `SELECT ` + partyColumnsFor(table) + ` FROM ` + table + ` WHERE ` + table[:len(table)-1] + `_id = $1;`

	modelParty, err := scanParty(r.pool.QueryRow(ctx, query, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s %d: %w", table[:len(table)-1], partyID, err)
	}

	domainParty := mapping.ToDomainParty(modelParty)
	return &domainParty, nil
}

func (r *PgxPartyRepository) listParties(ctx context.Context, table string) ([]domain.Party, error) {
	query := `SELECT ` + partyColumnsFor(table) + ` FROM ` + table + ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	modelParties := []models.Party{}
	for rows.Next() {
		modelParty, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table[:len(table)-1], err)
		}
		modelParties = append(modelParties, modelParty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	return mapping.ToDomainPartySlice(modelParties), nil
}

// SaveCustomer inserts a new customer and returns it with its generated ID.
func (r *PgxPartyRepository) SaveCustomer(ctx context.Context, customer domain.Party) (*domain.Party, error) {
	return r.saveParty(ctx, "customers", customer)
}

// SaveVendor inserts a new vendor and returns it with its generated ID.
func (r *PgxPartyRepository) SaveVendor(ctx context.Context, vendor domain.Party) (*domain.Party, error) {
	return r.saveParty(ctx, "vendors", vendor)
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxPartyRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Party, error) {
	return r.findPartyByID(ctx, "customers", customerID)
}

// FindVendorByID retrieves a vendor by its ID.
func (r *PgxPartyRepository) FindVendorByID(ctx context.Context, vendorID int64) (*domain.Party, error) {
	return r.findPartyByID(ctx, "vendors", vendorID)
}

// ListCustomers retrieves all customers ordered by name.
func (r *PgxPartyRepository) ListCustomers(ctx context.Context) ([]domain.Party, error) {
	return r.listParties(ctx, "customers")
}

// ListVendors retrieves all vendors ordered by name.
func (r *PgxPartyRepository) ListVendors(ctx context.Context) ([]domain.Party, error) {
	return r.listParties(ctx, "vendors")
}
