package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a row in the invoices table.
type Invoice struct {
	InvoiceID     int64           `db:"invoice_id"`
	InvoiceNumber string          `db:"invoice_number"`
	InvoiceDate   time.Time       `db:"invoice_date"`
	DueDate       *time.Time      `db:"due_date"`
	CustomerID    *int64          `db:"customer_id"`
	VendorID      *int64          `db:"vendor_id"`
	ProjectID     *int64          `db:"project_id"`
	Type          string          `db:"type"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	CurrencyCode  string          `db:"currency_code"`
	Status        string          `db:"status"`
	Description   string          `db:"description"`
	AuditFields
}

// Payment represents a row in the payments table.
type Payment struct {
	PaymentID       int64           `db:"payment_id"`
	PaymentNumber   string          `db:"payment_number"`
	PaymentDate     time.Time       `db:"payment_date"`
	InvoiceID       int64           `db:"invoice_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	ExchangeRate    decimal.Decimal `db:"exchange_rate"`
	PaymentMethod   string          `db:"payment_method"`
	ReferenceNumber string          `db:"reference_number"`
	Notes           string          `db:"notes"`
	AuditFields
}
