package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de almacén.
const (
	MovementLoad       = "load"                 // carga (entrada de mercancía)
	MovementUnload     = "unload"               // descarga (salida)
	MovementReturn     = "return"               // devolución de cliente
	MovementAdjustment = "inventory-adjustment" // ajuste de inventario
)

// MovementKinds lista los tipos válidos, en el orden en que se documentan.
var MovementKinds = []string{MovementLoad, MovementUnload, MovementReturn, MovementAdjustment}

// StockMovement es un hecho inmutable: una vez escrito no se actualiza ni se borra.
// Quantity se guarda con signo (positivo entrada/ajuste+, negativo salida/ajuste-).
type StockMovement struct {
	ID        int64
	ProductID int64
	Kind      string
	Quantity  decimal.Decimal
	Note      string
	MovedAt   time.Time
	CreatedAt time.Time
}
