package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus mirrors the administration subsystem's project lifecycle.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Active"
	ProjectCompleted ProjectStatus = "Completed"
	ProjectOnHold    ProjectStatus = "On Hold"
)

// Project is owned by the excluded administration subsystem and read here for
// risk scoring and invoice attribution. Spent is the single field this core
// writes, incremented when invoices are posted against the project.
type Project struct {
	ProjectID int64           `json:"projectID"`
	Name      string          `json:"name"`
	Status    ProjectStatus   `json:"status"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Progress  decimal.Decimal `json:"progress"` // Percent complete, 0-100
	StartDate *time.Time      `json:"startDate,omitempty"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
}

// Party is a customer or vendor referenced by invoices.
type Party struct {
	PartyID       int64  `json:"partyID"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	TaxID         string `json:"taxID"`
	CurrencyCode  string `json:"currencyCode"`
	AuditFields
}
