package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una factura.
const (
	InvoiceDraft  = "draft"  // borrador, editable
	InvoiceIssued = "issued" // emitida
	InvoicePaid   = "paid"   // pagada (terminal)
	InvoiceVoided = "voided" // anulada (terminal)
)

// Invoice representa la cabecera de una factura.
// Invariante: Tax = round2(TaxableBase*TaxRate) y Total = TaxableBase + Tax.
type Invoice struct {
	ID          int64
	Number      string
	CustomerID  *int64
	IssueDate   time.Time
	DueDate     *time.Time
	Status      string
	TaxableBase decimal.Decimal
	TaxRate     decimal.Decimal // fracción (0.22 = 22%)
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Customer se rellena cuando la consulta incluye el cliente relacionado.
	Customer *Customer
}
