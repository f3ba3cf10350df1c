package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// List ordena por nombre.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// Update no modifica QuantityOnHand ni Version (se manejan vía ledger).
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity escribe el stock cacheado si Version sigue siendo expectedVersion y la incrementa.
	// domain.ErrConcurrentUpdate si otra operación la cambió.
	UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal, expectedVersion int64) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
}
