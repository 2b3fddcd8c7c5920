package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project represents a row in the projects table. Owned by the
// administration subsystem; the ledger only reads it and increments spent.
type Project struct {
	ProjectID int64           `db:"project_id"`
	Name      string          `db:"name"`
	Status    string          `db:"status"`
	Budget    decimal.Decimal `db:"budget"`
	Spent     decimal.Decimal `db:"spent"`
	Progress  decimal.Decimal `db:"progress"`
	StartDate *time.Time      `db:"start_date"`
	EndDate   *time.Time      `db:"end_date"`
}

// Party represents a row in the customers or vendors table; both share the
// same shape.
type Party struct {
	PartyID       int64  `db:"party_id"`
	Name          string `db:"name"`
	ContactPerson string `db:"contact_person"`
	Email         string `db:"email"`
	Phone         string `db:"phone"`
	Address       string `db:"address"`
	TaxID         string `db:"tax_id"`
	CurrencyCode  string `db:"currency_code"`
	AuditFields
}
