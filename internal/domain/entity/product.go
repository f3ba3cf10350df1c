package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida admitidas para productos.
const (
	UnitPiece = "pz"
	UnitKilo  = "kg"
	UnitLitre = "lt"
	UnitMetre = "mt"
)

// ValidUnit indica si la unidad de medida es una de las admitidas.
func ValidUnit(u string) bool {
	switch u {
	case UnitPiece, UnitKilo, UnitLitre, UnitMetre:
		return true
	}
	return false
}

// Product representa un artículo del almacén.
// QuantityOnHand es un valor cacheado: debe coincidir con la suma con signo de sus StockMovement
// y solo se modifica a través del ledger. Version protege la escritura (compare-and-set).
type Product struct {
	ID              int64
	Code            string // código único
	Name            string
	Description     string
	Category        string
	Unit            string
	PurchasePrice   decimal.Decimal
	SalePrice       decimal.Decimal
	TaxRate         decimal.Decimal // porcentaje (22 = 22%)
	QuantityOnHand  decimal.Decimal
	QuantityMinimum decimal.Decimal
	Supplier        string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsLowStock indica si el stock disponible está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.QuantityOnHand.LessThanOrEqual(p.QuantityMinimum)
}
