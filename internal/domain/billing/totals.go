// Package billing contiene las reglas puras de facturación: cálculo de IVA y total,
// coherencia de totales y ciclo de vida de facturas y citas.
package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/domain"
)

// DefaultTaxRate IVA italiano ordinario (22%), expresado como fracción.
var DefaultTaxRate = decimal.RequireFromString("0.22")

// Totals resultado del cálculo de impuestos de una factura.
type Totals struct {
	TaxableBase decimal.Decimal
	TaxRate     decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

// Round2 redondea a dos decimales, mitad hacia arriba (lejos de cero).
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// maxRateDecimals precisión de invoices.tax_rate (NUMERIC(5,4)).
const maxRateDecimals = 4

// ValidateRate el tipo es una fracción entre 0 y 1 con hasta cuatro decimales: 22% se escribe 0.22.
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tipo de IVA %s fuera de [0, 1]: %w", rate, domain.ErrInvalidAmount)
	}
	if !rate.Equal(rate.Round(maxRateDecimals)) {
		return fmt.Errorf("tipo de IVA %s con más de %d decimales: %w", rate, maxRateDecimals, domain.ErrInvalidAmount)
	}
	return nil
}

// Recompute deriva IVA y total desde la base imponible.
// La base se normaliza a dos decimales; tax = round2(base*rate) y total = round2(base+tax),
// redondeando una sola vez sobre el valor exacto. Total es siempre la suma de los dos campos guardados.
func Recompute(taxableBase, taxRate decimal.Decimal) (Totals, error) {
	if taxableBase.IsNegative() {
		return Totals{}, domain.ErrInvalidAmount
	}
	if err := ValidateRate(taxRate); err != nil {
		return Totals{}, err
	}
	base := Round2(taxableBase)
	tax := Round2(base.Mul(taxRate))
	return Totals{
		TaxableBase: base,
		TaxRate:     taxRate,
		Tax:         tax,
		Total:       Round2(base.Add(tax)),
	}, nil
}

// LineTotal importe neto de una línea: round2(quantity*unitPrice).
func LineTotal(quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	if err := domain.CheckQuantityScale(quantity); err != nil {
		return decimal.Zero, err
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return Round2(quantity.Mul(unitPrice)), nil
}

// SumLines base imponible a partir de los importes ya redondeados de cada línea.
func SumLines(lineTotals []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range lineTotals {
		sum = sum.Add(t)
	}
	return sum
}
