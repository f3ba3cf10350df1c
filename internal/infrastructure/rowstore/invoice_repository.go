package rowstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo cabeceras y líneas de factura.
type InvoiceRepo struct {
	s repository.RowStore
}

// NewInvoiceRepository construye el adaptador. Pasar el store o una tx.
func NewInvoiceRepository(s repository.RowStore) *InvoiceRepo {
	return &InvoiceRepo{s: s}
}

// Create persiste la cabecera. IssueDate vacía = hoy.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.IssueDate.IsZero() {
		inv.IssueDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	out, err := r.s.Insert(ctx, repository.TableInvoices, invoiceToRow(inv))
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	customer := inv.Customer
	*inv = *invoiceFromRow(out)
	inv.Customer = customer
	return nil
}

// GetByID obtiene la factura con su cliente.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.getOne(ctx, repository.Eq("id", id))
}

// GetByNumber obtiene la factura por número.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.getOne(ctx, repository.Eq("number", number))
}

func (r *InvoiceRepo) getOne(ctx context.Context, f repository.Filter) (*entity.Invoice, error) {
	rows, err := r.s.Select(ctx, repository.TableInvoices, repository.Query{
		Filters: []repository.Filter{f},
		Limit:   1,
		Embed:   []string{"customer"},
	})
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return invoiceFromRow(rows[0]), nil
}

// List facturas más recientes primero, con cliente.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	q := repository.Query{
		Order:  []repository.Order{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}},
		Limit:  f.Limit,
		Offset: f.Offset,
		Embed:  []string{"customer"},
	}
	if f.Status != "" {
		q.Filters = append(q.Filters, repository.Eq("status", f.Status))
	}
	if f.CustomerID != nil {
		q.Filters = append(q.Filters, repository.Eq("customer_id", *f.CustomerID))
	}
	rows, err := r.s.Select(ctx, repository.TableInvoices, q)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	list := make([]*entity.Invoice, 0, len(rows))
	for _, row := range rows {
		list = append(list, invoiceFromRow(row))
	}
	return list, nil
}

// UpdateTotals persiste base, tipo, iva y total.
func (r *InvoiceRepo) UpdateTotals(ctx context.Context, inv *entity.Invoice) error {
	out, err := r.s.Update(ctx, repository.TableInvoices, inv.ID, repository.Row{
		"taxable_base": inv.TaxableBase,
		"tax_rate":     inv.TaxRate,
		"tax":          inv.Tax,
		"total":        inv.Total,
	})
	if err != nil {
		return r.wrap("update invoice totals", err)
	}
	inv.UpdatedAt = asTime(out["updated_at"])
	return nil
}

// UpdateStatus persiste solo el estado.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if _, err := r.s.Update(ctx, repository.TableInvoices, id, repository.Row{"status": status}); err != nil {
		return r.wrap("update invoice status", err)
	}
	return nil
}

// Delete borra las líneas y la cabecera.
func (r *InvoiceRepo) Delete(ctx context.Context, id int64) error {
	lines, err := r.ListLines(ctx, id)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if err := r.s.Delete(ctx, repository.TableInvoiceLines, l.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete invoice line: %w", err)
		}
	}
	if err := r.s.Delete(ctx, repository.TableInvoices, id); err != nil {
		return r.wrap("delete invoice", err)
	}
	return nil
}

// CreateLine persiste una línea.
func (r *InvoiceRepo) CreateLine(ctx context.Context, l *entity.InvoiceLine) error {
	out, err := r.s.Insert(ctx, repository.TableInvoiceLines, lineToRow(l))
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	*l = *lineFromRow(out)
	return nil
}

// ListLines líneas en orden de inserción.
func (r *InvoiceRepo) ListLines(ctx context.Context, invoiceID int64) ([]*entity.InvoiceLine, error) {
	rows, err := r.s.Select(ctx, repository.TableInvoiceLines, repository.Query{
		Filters: []repository.Filter{repository.Eq("invoice_id", invoiceID)},
		Order:   []repository.Order{{Column: "id"}},
	})
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	list := make([]*entity.InvoiceLine, 0, len(rows))
	for _, row := range rows {
		list = append(list, lineFromRow(row))
	}
	return list, nil
}

func (r *InvoiceRepo) wrap(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvoiceNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
