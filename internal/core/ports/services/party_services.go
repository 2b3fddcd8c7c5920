package services

import (
	"context"

	"github.com/sitebooks/sitebooks/internal/core/domain"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// PartyReaderSvc defines read operations for customers and vendors
type PartyReaderSvc interface {
	// GetCustomerByID retrieves a customer.
	GetCustomerByID(ctx context.Context, customerID int64) (*domain.Party, error)

	// GetVendorByID retrieves a vendor.
	GetVendorByID(ctx context.Context, vendorID int64) (*domain.Party, error)

	// ListCustomers retrieves all customers.
	ListCustomers(ctx context.Context) ([]domain.Party, error)

	// ListVendors retrieves all vendors.
	ListVendors(ctx context.Context) ([]domain.Party, error)
}

// PartyWriterSvc defines write operations for customers and vendors
type PartyWriterSvc interface {
	// CreateCustomer persists a new customer.
	CreateCustomer(ctx context.Context, req dto.CreatePartyRequest, caller domain.Caller) (*domain.Party, error)

	// CreateVendor persists a new vendor.
	CreateVendor(ctx context.Context, req dto.CreatePartyRequest, caller domain.Caller) (*domain.Party, error)
}

// PartySvcFacade combines all party-related service interfaces
type PartySvcFacade interface {
	PartyReaderSvc
	PartyWriterSvc
}

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a project.
	GetProjectByID(ctx context.Context, projectID int64) (*domain.Project, error)

	// ListProjects retrieves projects, optionally filtered by status.
	ListProjects(ctx context.Context, params dto.ListProjectsParams) ([]domain.Project, error)
}
