package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceType distinguishes customer receivables from vendor payables.
type InvoiceType string

const (
	Receivable InvoiceType = "receivable"
	Payable    InvoiceType = "payable"
)

// InvoiceStatus tracks settlement state. Status is the only invoice field
// mutated after creation, driven by payment reconciliation and overdue
// sweeps.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "Pending"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

// Invoice represents a receivable or payable document. Exactly one of
// CustomerID/VendorID is set, matching the invoice type.
type Invoice struct {
	InvoiceID     int64           `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"` // INV-/VINV-YYYYMMDD-NNN
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	CustomerID    *int64          `json:"customerID,omitempty"`
	VendorID      *int64          `json:"vendorID,omitempty"`
	ProjectID     *int64          `json:"projectID,omitempty"`
	Type          InvoiceType     `json:"type"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CurrencyCode  string          `json:"currencyCode"`
	Status        InvoiceStatus   `json:"status"`
	Description   string          `json:"description"`
	Payments      []Payment       `json:"payments,omitempty"` // Often loaded separately
	AuditFields
}

// Payment records money received or sent against an invoice. Immutable once
// created; ExchangeRate is the rate from the payment currency to the invoice
// currency captured at payment time.
type Payment struct {
	PaymentID       int64           `json:"paymentID"`
	PaymentNumber   string          `json:"paymentNumber"` // PAY-YYYYMMDD-NNN
	PaymentDate     time.Time       `json:"paymentDate"`
	InvoiceID       int64           `json:"invoiceID"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes"`
	AuditFields
}
