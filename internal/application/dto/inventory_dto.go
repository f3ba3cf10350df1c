package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/products/:id/movements.
type RegisterMovementRequest struct {
	Kind     string          `json:"kind"`
	Quantity decimal.Decimal `json:"quantity"`
	Note     string          `json:"note" validate:"max=500"`
}

// StocktakeRequest body para POST /api/products/:id/stocktake.
type StocktakeRequest struct {
	Counted decimal.Decimal `json:"counted"`
	Note    string          `json:"note" validate:"max=500"`
}

// MovementResponse un movimiento del historial.
type MovementResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note"`
	MovedAt   time.Time       `json:"moved_at"`
}

// MovementResultResponse resultado de aplicar un movimiento: el movimiento y el stock resultante.
type MovementResultResponse struct {
	Movement *MovementResponse `json:"movement,omitempty"`
	Product  ProductResponse   `json:"product"`
}

// ReconcileReport resultado de comparar el stock cacheado con el historial.
type ReconcileReport struct {
	ProductID int64           `json:"product_id"`
	Code      string          `json:"code"`
	Cached    decimal.Decimal `json:"cached"`
	Ledger    decimal.Decimal `json:"ledger"`
	Drift     decimal.Decimal `json:"drift"`
	Repaired  bool            `json:"repaired"`
}

// ReconcileSummary resultado de reconciliar todo el almacén.
type ReconcileSummary struct {
	Checked  int               `json:"checked"`
	Drifted  int               `json:"drifted"`
	Repaired int               `json:"repaired"`
	DryRun   bool              `json:"dry_run"`
	Reports  []ReconcileReport `json:"reports"`
}

// LowStockItem producto en o bajo el mínimo, con la cantidad sugerida a pedir.
type LowStockItem struct {
	ProductID          int64           `json:"product_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	QuantityOnHand     decimal.Decimal `json:"quantity_on_hand"`
	QuantityMinimum    decimal.Decimal `json:"quantity_minimum"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`          // QuantityMinimum * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // IdealStock - QuantityOnHand
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * PurchasePrice
	Supplier           string          `json:"supplier"`
}
