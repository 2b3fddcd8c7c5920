package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/dto"
)

// partyService manages customers and vendors.
type partyService struct {
	BaseService
	partyRepo    portsrepo.PartyRepository
	baseCurrency string
}

// NewPartyService creates a new party service. baseCurrency is used when a
// party is created without an explicit currency.
func NewPartyService(partyRepo portsrepo.PartyRepository, baseCurrency string) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo, baseCurrency: baseCurrency}
}

// Ensure partyService implements the portssvc.PartySvcFacade interface
var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) newParty(req dto.CreatePartyRequest, caller domain.Caller) domain.Party {
	currency := strings.ToUpper(req.CurrencyCode)
	if currency == "" {
		currency = s.baseCurrency
	}
	now := time.Now()
	return domain.Party{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		TaxID:         req.TaxID,
		CurrencyCode:  currency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     caller.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: caller.UserID,
		},
	}
}

// CreateCustomer persists a new customer.
// Implements portssvc.PartyWriterSvc
func (s *partyService) CreateCustomer(ctx context.Context, req dto.CreatePartyRequest, caller domain.Caller) (*domain.Party, error) {
	saved, err := s.partyRepo.SaveCustomer(ctx, s.newParty(req, caller))
	if err != nil {
		s.LogError(ctx, err, "Failed to save customer", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.LogInfo(ctx, "Customer created", slog.Int64("customer_id", saved.PartyID))
	return saved, nil
}

// CreateVendor persists a new vendor.
// Implements portssvc.PartyWriterSvc
func (s *partyService) CreateVendor(ctx context.Context, req dto.CreatePartyRequest, caller domain.Caller) (*domain.Party, error) {
	saved, err := s.partyRepo.SaveVendor(ctx, s.newParty(req, caller))
	if err != nil {
		s.LogError(ctx, err, "Failed to save vendor", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.LogInfo(ctx, "Vendor created", slog.Int64("vendor_id", saved.PartyID))
	return saved, nil
}

// GetCustomerByID retrieves a customer.
// Implements portssvc.PartyReaderSvc
func (s *partyService) GetCustomerByID(ctx context.Context, customerID int64) (*domain.Party, error) {
	customer, err := s.partyRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find customer", slog.Int64("customer_id", customerID))
		}
		return nil, fmt.Errorf("failed to find customer %d: %w", customerID, err)
	}
	return customer, nil
}

// GetVendorByID retrieves a vendor.
// Implements portssvc.PartyReaderSvc
func (s *partyService) GetVendorByID(ctx context.Context, vendorID int64) (*domain.Party, error) {
	vendor, err := s.partyRepo.FindVendorByID(ctx, vendorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find vendor", slog.Int64("vendor_id", vendorID))
		}
		return nil, fmt.Errorf("failed to find vendor %d: %w", vendorID, err)
	}
	return vendor, nil
}

// ListCustomers retrieves all customers.
// Implements portssvc.PartyReaderSvc
func (s *partyService) ListCustomers(ctx context.Context) ([]domain.Party, error) {
	customers, err := s.partyRepo.ListCustomers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers")
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// ListVendors retrieves all vendors.
// Implements portssvc.PartyReaderSvc
func (s *partyService) ListVendors(ctx context.Context) ([]domain.Party, error) {
	vendors, err := s.partyRepo.ListVendors(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vendors")
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

// projectService exposes the read-only project view.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepository
}

// NewProjectService creates a new project read service.
func NewProjectService(projectRepo portsrepo.ProjectRepository) portssvc.ProjectReaderSvc {
	return &projectService{projectRepo: projectRepo}
}

// Ensure projectService implements the portssvc.ProjectReaderSvc interface
var _ portssvc.ProjectReaderSvc = (*projectService)(nil)

// GetProjectByID retrieves a project.
// Implements portssvc.ProjectReaderSvc
func (s *projectService) GetProjectByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find project", slog.Int64("project_id", projectID))
		}
		return nil, fmt.Errorf("failed to find project %d: %w", projectID, err)
	}
	return project, nil
}

// ListProjects retrieves projects, optionally filtered by status.
// Implements portssvc.ProjectReaderSvc
func (s *projectService) ListProjects(ctx context.Context, params dto.ListProjectsParams) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListProjects(ctx, params.Status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects")
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}
