package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// ProjectRepository gives the ledger read access to projects plus the single
// write the ledger owns: bumping a project's spent total when a payable
// invoice is recorded against it.
type ProjectRepository interface {
	// FindProjectByID retrieves a project by its ID.
	FindProjectByID(ctx context.Context, projectID int64) (*domain.Project, error)

	// ListProjects retrieves projects, optionally filtered by status.
	ListProjects(ctx context.Context, status *domain.ProjectStatus) ([]domain.Project, error)

	// IncrementSpentInTx adds delta to the project's spent amount inside an
	// existing transaction. Returns apperrors.ErrNotFound when the project
	// does not exist.
	IncrementSpentInTx(ctx context.Context, tx pgx.Tx, projectID int64, delta decimal.Decimal, updatedBy int64) error
}

// PartyRepository stores customers and vendors so invoices can be validated
// against real counterparties.
type PartyRepository interface {
	// SaveCustomer inserts a new customer and returns it with its generated ID.
	SaveCustomer(ctx context.Context, customer domain.Party) (*domain.Party, error)

	// SaveVendor inserts a new vendor and returns it with its generated ID.
	SaveVendor(ctx context.Context, vendor domain.Party) (*domain.Party, error)

	// FindCustomerByID retrieves a customer by its ID.
	FindCustomerByID(ctx context.Context, customerID int64) (*domain.Party, error)

	// FindVendorByID retrieves a vendor by its ID.
	FindVendorByID(ctx context.Context, vendorID int64) (*domain.Party, error)

	// ListCustomers retrieves all customers ordered by name.
	ListCustomers(ctx context.Context) ([]domain.Party, error)

	// ListVendors retrieves all vendors ordered by name.
	ListVendors(ctx context.Context) ([]domain.Party, error)
}
