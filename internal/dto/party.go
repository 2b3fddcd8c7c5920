package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// CreatePartyRequest defines the data needed to create a customer or vendor.
type CreatePartyRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxID         string `json:"taxID"`
	CurrencyCode  string `json:"currencyCode" binding:"omitempty,len=3"` // Defaults to the base currency
}

// PartyResponse defines the data returned for a customer or vendor.
type PartyResponse struct {
	PartyID       int64     `json:"partyID"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	TaxID         string    `json:"taxID"`
	CurrencyCode  string    `json:"currencyCode"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListProjectsParams defines query parameters for listing projects.
type ListProjectsParams struct {
	Status *domain.ProjectStatus `form:"status"`
}

// ProjectResponse defines the read-only project view exposed by the ledger.
type ProjectResponse struct {
	ProjectID int64                `json:"projectID"`
	Name      string               `json:"name"`
	Status    domain.ProjectStatus `json:"status"`
	Budget    decimal.Decimal      `json:"budget"`
	Spent     decimal.Decimal      `json:"spent"`
	Progress  decimal.Decimal      `json:"progress"`
	StartDate *time.Time           `json:"startDate,omitempty"`
	EndDate   *time.Time           `json:"endDate,omitempty"`
}

// ToPartyResponse converts a domain.Party to PartyResponse DTO.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:       p.PartyID,
		Name:          p.Name,
		ContactPerson: p.ContactPerson,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		TaxID:         p.TaxID,
		CurrencyCode:  p.CurrencyCode,
		CreatedAt:     p.CreatedAt,
	}
}

// ToListPartyResponse converts a slice of domain.Party to DTOs.
func ToListPartyResponse(parties []domain.Party) []PartyResponse {
	responses := make([]PartyResponse, len(parties))
	for i, p := range parties {
		responses[i] = ToPartyResponse(&p)
	}
	return responses
}

// ToProjectResponse converts a domain.Project to ProjectResponse DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Status:    p.Status,
		Budget:    p.Budget,
		Spent:     p.Spent,
		Progress:  p.Progress,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
	}
}

// ToListProjectResponse converts a slice of domain.Project to DTOs.
func ToListProjectResponse(projects []domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = ToProjectResponse(&p)
	}
	return responses
}
