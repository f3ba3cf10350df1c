package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest entrada para crear una factura en borrador.
type CreateInvoiceRequest struct {
	Number      string               `json:"number" validate:"required,min=1,max=50"`
	CustomerID  *int64               `json:"customer_id" validate:"omitempty,min=1"`
	IssueDate   *time.Time           `json:"issue_date"`
	DueDate     *time.Time           `json:"due_date"`
	TaxableBase decimal.Decimal      `json:"taxable_base"`
	TaxRate     *decimal.Decimal     `json:"tax_rate"`
	Notes       string               `json:"notes" validate:"max=2000"`
	Lines       []InvoiceLineRequest `json:"lines" validate:"dive"`
}

// InvoiceLineRequest una línea de factura.
type InvoiceLineRequest struct {
	ProductID   *int64          `json:"product_id" validate:"omitempty,min=1"`
	Description string          `json:"description" validate:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// TaxableBaseRequest body para PUT /api/invoices/:id/taxable-base.
type TaxableBaseRequest struct {
	TaxableBase decimal.Decimal  `json:"taxable_base"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// PreviewTotalsRequest body para POST /api/invoices/preview.
type PreviewTotalsRequest struct {
	TaxableBase decimal.Decimal  `json:"taxable_base"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
}

// StatusRequest body para PUT .../:id/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// TotalsResponse base, iva y total calculados.
type TotalsResponse struct {
	TaxableBase decimal.Decimal `json:"taxable_base"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceLineResponse salida de una línea.
type InvoiceLineResponse struct {
	ID          int64           `json:"id"`
	ProductID   *int64          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID          int64                 `json:"id"`
	Number      string                `json:"number"`
	CustomerID  *int64                `json:"customer_id,omitempty"`
	Customer    *CustomerResponse     `json:"customer,omitempty"`
	IssueDate   time.Time             `json:"issue_date"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
	Status      string                `json:"status"`
	TaxableBase decimal.Decimal       `json:"taxable_base"`
	TaxRate     decimal.Decimal       `json:"tax_rate"`
	Tax         decimal.Decimal       `json:"tax"`
	Total       decimal.Decimal       `json:"total"`
	Notes       string                `json:"notes"`
	Lines       []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	CompanyName string `json:"company_name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=30"`
	Mobile      string `json:"mobile" validate:"max=30"`
	Address     string `json:"address" validate:"max=300"`
	City        string `json:"city" validate:"max=100"`
	PostalCode  string `json:"postal_code" validate:"max=10"`
	Province    string `json:"province" validate:"max=10"`
	FiscalCode  string `json:"fiscal_code" validate:"max=16"`
	VATNumber   string `json:"vat_number" validate:"max=20"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// UpdateCustomerRequest mismos campos que la creación; se reemplazan todos.
type UpdateCustomerRequest = CreateCustomerRequest

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CompanyName string    `json:"company_name"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Mobile      string    `json:"mobile"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	Province    string    `json:"province"`
	FiscalCode  string    `json:"fiscal_code"`
	VATNumber   string    `json:"vat_number"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
