package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine representa una línea de factura. LineTotal = round2(Quantity*UnitPrice).
type InvoiceLine struct {
	ID          int64
	InvoiceID   int64
	ProductID   *int64
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
	CreatedAt   time.Time
}
