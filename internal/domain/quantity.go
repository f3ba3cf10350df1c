package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityDecimals escala de las columnas de cantidad (NUMERIC(14,3)).
const QuantityDecimals = 3

// CheckQuantityScale rechaza cantidades con más decimales de los que se persisten.
func CheckQuantityScale(q decimal.Decimal) error {
	if !q.Equal(q.Round(QuantityDecimals)) {
		return fmt.Errorf("cantidad %s con más de %d decimales: %w", q, QuantityDecimals, ErrInvalidQuantity)
	}
	return nil
}
