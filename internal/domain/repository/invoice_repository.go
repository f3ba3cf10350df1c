package repository

import (
	"context"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

// InvoiceFilter filtros de listado de facturas.
type InvoiceFilter struct {
	Status     string
	CustomerID *int64
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID incluye el cliente relacionado; nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	// List ordena por created_at descendente e incluye el cliente.
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	// UpdateTotals persiste base, tipo, iva y total.
	UpdateTotals(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus persiste solo el estado; no toca los totales.
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error

	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	ListLines(ctx context.Context, invoiceID int64) ([]*entity.InvoiceLine, error)
}
