package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// CreateInvoiceRequest defines the data needed to record an invoice.
// Receivables require customerID; payables require vendorID.
type CreateInvoiceRequest struct {
	Type         domain.InvoiceType `json:"type" binding:"required,oneof=receivable payable"`
	InvoiceDate  time.Time          `json:"invoiceDate" binding:"required" time_format:"2006-01-02"`
	DueDate      *time.Time         `json:"dueDate" time_format:"2006-01-02"`
	CustomerID   *int64             `json:"customerID"`
	VendorID     *int64             `json:"vendorID"`
	ProjectID    *int64             `json:"projectID"`
	Subtotal     decimal.Decimal    `json:"subtotal" binding:"required"`
	TaxAmount    decimal.Decimal    `json:"taxAmount"`
	CurrencyCode string             `json:"currencyCode" binding:"required,len=3,uppercase"`
	Description  string             `json:"description"`
}

// CreatePaymentRequest defines the data needed to record a payment against
// an invoice. ExchangeRate, when supplied, overrides the stored rate from
// the payment currency into the invoice currency.
type CreatePaymentRequest struct {
	PaymentDate     time.Time        `json:"paymentDate" binding:"required" time_format:"2006-01-02"`
	Amount          decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode    string           `json:"currencyCode" binding:"required,len=3,uppercase"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"`
	PaymentMethod   string           `json:"paymentMethod" binding:"required"`
	ReferenceNumber string           `json:"referenceNumber"`
	Notes           string           `json:"notes"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Type   *domain.InvoiceType   `form:"type"`
	Status *domain.InvoiceStatus `form:"status"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID       int64           `json:"paymentID"`
	PaymentNumber   string          `json:"paymentNumber"`
	PaymentDate     time.Time       `json:"paymentDate"`
	InvoiceID       int64           `json:"invoiceID"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       int64           `json:"createdBy"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     int64                `json:"invoiceID"`
	InvoiceNumber string               `json:"invoiceNumber"`
	InvoiceDate   time.Time            `json:"invoiceDate"`
	DueDate       *time.Time           `json:"dueDate,omitempty"`
	CustomerID    *int64               `json:"customerID,omitempty"`
	VendorID      *int64               `json:"vendorID,omitempty"`
	ProjectID     *int64               `json:"projectID,omitempty"`
	Type          domain.InvoiceType   `json:"type"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	TaxAmount     decimal.Decimal      `json:"taxAmount"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	CurrencyCode  string               `json:"currencyCode"`
	Status        domain.InvoiceStatus `json:"status"`
	Description   string               `json:"description"`
	Payments      []PaymentResponse    `json:"payments,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     int64                `json:"createdBy"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		PaymentNumber:   p.PaymentNumber,
		PaymentDate:     p.PaymentDate,
		InvoiceID:       p.InvoiceID,
		Amount:          p.Amount,
		CurrencyCode:    p.CurrencyCode,
		ExchangeRate:    p.ExchangeRate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		CreatedBy:       p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of domain.Payment to DTOs.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = ToPaymentResponse(&p)
	}
	return responses
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		CustomerID:    inv.CustomerID,
		VendorID:      inv.VendorID,
		ProjectID:     inv.ProjectID,
		Type:          inv.Type,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		CurrencyCode:  inv.CurrencyCode,
		Status:        inv.Status,
		Description:   inv.Description,
		Payments:      ToPaymentResponses(inv.Payments),
		CreatedAt:     inv.CreatedAt,
		CreatedBy:     inv.CreatedBy,
	}
}

// ToListInvoiceResponse converts a slice of domain.Invoice to DTOs.
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		responses[i] = ToInvoiceResponse(&inv)
	}
	return responses
}
