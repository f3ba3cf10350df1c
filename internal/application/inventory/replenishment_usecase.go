package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// ReplenishmentUseCase lista los productos en o bajo su mínimo.
// El bajo stock se evalúa al leer; el ledger no emite eventos.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

var idealFactor = decimal.NewFromFloat(1.5)

// LowStock devuelve los productos con quantity_on_hand <= quantity_minimum, por nombre,
// con la cantidad sugerida para volver a 1.5 veces el mínimo.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context) ([]dto.LowStockItem, error) {
	products, err := uc.productRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItem, 0)
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		ideal := p.QuantityMinimum.Mul(idealFactor)
		suggested := ideal.Sub(p.QuantityOnHand)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		items = append(items, dto.LowStockItem{
			ProductID:          p.ID,
			Code:               p.Code,
			Name:               p.Name,
			Unit:               p.Unit,
			QuantityOnHand:     p.QuantityOnHand,
			QuantityMinimum:    p.QuantityMinimum,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			EstimatedOrderCost: suggested.Mul(p.PurchasePrice).Round(2),
			Supplier:           p.Supplier,
		})
	}
	return items, nil
}
