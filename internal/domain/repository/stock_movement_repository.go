package repository

import (
	"context"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

// StockMovementRepository puerto del registro de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve los movimientos más recientes primero; limit 0 = todos.
	ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error)
}
