package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialQuantity se registra como ajuste.
type CreateProductRequest struct {
	Code            string           `json:"code" validate:"required,min=1,max=64"`
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	Description     string           `json:"description"`
	Category        string           `json:"category" validate:"max=100"`
	Unit            string           `json:"unit" validate:"omitempty,oneof=pz kg lt mt"`
	PurchasePrice   decimal.Decimal  `json:"purchase_price"`
	SalePrice       decimal.Decimal  `json:"sale_price"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	InitialQuantity decimal.Decimal  `json:"initial_quantity"`
	QuantityMinimum decimal.Decimal  `json:"quantity_minimum"`
	Supplier        string           `json:"supplier" validate:"max=200"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: ese va por el ledger).
type UpdateProductRequest struct {
	Code            *string          `json:"code" validate:"omitempty,min=1,max=64"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category" validate:"omitempty,max=100"`
	Unit            *string          `json:"unit" validate:"omitempty,oneof=pz kg lt mt"`
	PurchasePrice   *decimal.Decimal `json:"purchase_price"`
	SalePrice       *decimal.Decimal `json:"sale_price"`
	TaxRate         *decimal.Decimal `json:"tax_rate"`
	QuantityMinimum *decimal.Decimal `json:"quantity_minimum"`
	Supplier        *string          `json:"supplier"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	QuantityOnHand  decimal.Decimal `json:"quantity_on_hand"`
	QuantityMinimum decimal.Decimal `json:"quantity_minimum"`
	LowStock        bool            `json:"low_stock"`
	Supplier        string          `json:"supplier"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
