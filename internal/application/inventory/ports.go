package inventory

import (
	"context"

	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que el movimiento y el stock cacheado se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// Observer recibe los eventos del ledger que interesan a métricas. nil = sin métricas.
type Observer interface {
	MovementApplied(kind string)
	DriftDetected()
	DriftRepaired()
}

type nopObserver struct{}

func (nopObserver) MovementApplied(string) {}
func (nopObserver) DriftDetected()         {}
func (nopObserver) DriftRepaired()         {}
