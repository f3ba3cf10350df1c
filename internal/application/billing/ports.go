package billing

import (
	"context"

	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// Observer recibe los cambios de estado de facturas. nil = sin métricas.
type Observer interface {
	InvoiceTransition(from, to string)
}

type nopObserver struct{}

func (nopObserver) InvoiceTransition(string, string) {}
