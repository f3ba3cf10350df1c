// Package inventory contiene la aritmética pura del ledger de stock (servicio de dominio).
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

// ValidKind indica si kind es un tipo de movimiento conocido.
func ValidKind(kind string) bool {
	switch kind {
	case entity.MovementLoad, entity.MovementUnload, entity.MovementReturn, entity.MovementAdjustment:
		return true
	}
	return false
}

// SignedDelta convierte una cantidad positiva en la variación con signo según el tipo:
// +q para load, return e inventory-adjustment; -q para unload.
func SignedDelta(kind string, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !ValidKind(kind) {
		return decimal.Zero, domain.ErrInvalidMovementKind
	}
	if !quantity.IsPositive() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	if err := domain.CheckQuantityScale(quantity); err != nil {
		return decimal.Zero, err
	}
	if kind == entity.MovementUnload {
		return quantity.Neg(), nil
	}
	return quantity, nil
}

// Replay suma las cantidades con signo del historial: el valor que debería tener el caché.
func Replay(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Quantity)
	}
	return total
}

// Drift compara el caché con el historial.
type Drift struct {
	Cached decimal.Decimal
	Ledger decimal.Decimal
	// Difference = Cached - Ledger; cero cuando son coherentes.
	Difference decimal.Decimal
}

// InSync indica que no hay desviación.
func (d Drift) InSync() bool { return d.Difference.IsZero() }

// Compare calcula la desviación entre el stock cacheado y el historial de movimientos.
func Compare(cached decimal.Decimal, movements []*entity.StockMovement) Drift {
	ledger := Replay(movements)
	return Drift{Cached: cached, Ledger: ledger, Difference: cached.Sub(ledger)}
}

// StocktakeDelta devuelve la variación necesaria para llevar onHand al conteo físico.
// counted no puede ser negativo ni tener más de tres decimales.
func StocktakeDelta(onHand, counted decimal.Decimal) (decimal.Decimal, error) {
	if counted.IsNegative() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	if err := domain.CheckQuantityScale(counted); err != nil {
		return decimal.Zero, err
	}
	return counted.Sub(onHand), nil
}
