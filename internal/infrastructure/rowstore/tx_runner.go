package rowstore

import (
	"context"

	"github.com/jhoicas/gestionale-api/internal/application/billing"
	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ billing.BillingTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción del store (PostgreSQL o memoria).
type TxRunner struct {
	store repository.Transactor
}

// NewTxRunner construye el runner.
func NewTxRunner(store repository.Transactor) *TxRunner {
	return &TxRunner{store: store}
}

// Run abre la transacción con los repos de inventario; Commit si fn no falla, Rollback si falla.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.store.InTx(ctx, func(tx repository.RowStore) error {
		return fn(NewStockMovementRepository(tx), NewProductRepository(tx))
	})
}

// RunBilling abre la transacción con los repos de facturación.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.store.InTx(ctx, func(tx repository.RowStore) error {
		return fn(NewInvoiceRepository(tx), NewCustomerRepository(tx))
	})
}
