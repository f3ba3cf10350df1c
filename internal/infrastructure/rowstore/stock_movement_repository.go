package rowstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo solo inserta y lista: el historial no se modifica.
type StockMovementRepo struct {
	s repository.RowStore
}

func NewStockMovementRepository(s repository.RowStore) *StockMovementRepo {
	return &StockMovementRepo{s: s}
}

// Append registra el movimiento. MovedAt vacío = ahora.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	if m.MovedAt.IsZero() {
		m.MovedAt = time.Now().UTC()
	}
	out, err := r.s.Insert(ctx, repository.TableStockMovements, repository.Row{
		"product_id": m.ProductID,
		"kind":       m.Kind,
		"quantity":   m.Quantity,
		"note":       nullable(m.Note),
		"moved_at":   m.MovedAt,
	})
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	*m = *movementFromRow(out)
	return nil
}

func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error) {
	rows, err := r.s.Select(ctx, repository.TableStockMovements, repository.Query{
		Filters: []repository.Filter{repository.Eq("product_id", productID)},
		Order:   []repository.Order{{Column: "moved_at", Desc: true}, {Column: "id", Desc: true}},
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	list := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		list = append(list, movementFromRow(row))
	}
	return list, nil
}
