package billing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

// ErrInconsistentTotals agrupa los errores de coherencia de totales.
var ErrInconsistentTotals = errors.New("totales de factura incoherentes")

// ValidateTotals comprueba que IVA y total guardados coincidan con la base imponible y,
// si hay líneas, que la base sea la suma de los importes de línea.
func ValidateTotals(invoice *entity.Invoice, lines []*entity.InvoiceLine) error {
	if invoice == nil {
		return fmt.Errorf("%w: factura nula", ErrInconsistentTotals)
	}
	var errs []error

	expected, err := Recompute(invoice.TaxableBase, invoice.TaxRate)
	if err != nil {
		errs = append(errs, err)
	} else {
		if !invoice.Tax.Equal(expected.Tax) {
			errs = append(errs, fmt.Errorf("iva (%s) no coincide con base*tipo (%s)", invoice.Tax, expected.Tax))
		}
		if !invoice.Total.Equal(invoice.TaxableBase.Add(invoice.Tax)) {
			errs = append(errs, fmt.Errorf("total (%s) no coincide con base + iva (%s)", invoice.Total, invoice.TaxableBase.Add(invoice.Tax)))
		}
	}

	if len(lines) > 0 {
		sum := SumLines(lineTotals(lines))
		if !invoice.TaxableBase.Equal(sum) {
			errs = append(errs, fmt.Errorf("base imponible (%s) no coincide con la suma de líneas (%s)", invoice.TaxableBase, sum))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInconsistentTotals}, errs...)...)
	}
	return nil
}

func lineTotals(lines []*entity.InvoiceLine) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.LineTotal)
	}
	return out
}
