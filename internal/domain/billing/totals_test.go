package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/billing"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), "%s: got %s want %s", msg, got, want)
}

func TestRecompute_Cien(t *testing.T) {
	tot, err := billing.Recompute(d("100.00"), billing.DefaultTaxRate)
	require.NoError(t, err)
	assertDec(t, "22.00", tot.Tax, "iva")
	assertDec(t, "122.00", tot.Total, "total")
	assert.Equal(t, "122.00", tot.Total.StringFixed(2))
}

func TestRecompute_Cero(t *testing.T) {
	tot, err := billing.Recompute(decimal.Zero, billing.DefaultTaxRate)
	require.NoError(t, err)
	assert.True(t, tot.Tax.IsZero())
	assert.True(t, tot.Total.IsZero())
	assert.Equal(t, "0.00", tot.Total.StringFixed(2))
}

func TestRecompute_BaseNegativa(t *testing.T) {
	_, err := billing.Recompute(d("-1"), billing.DefaultTaxRate)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRecompute_TipoFueraDeRango(t *testing.T) {
	for _, rate := range []string{"22", "1.0001", "-0.01", "0.22005"} {
		_, err := billing.Recompute(d("100"), d(rate))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "tipo %s", rate)
	}
	for _, rate := range []string{"0", "0.04", "0.2200", "1"} {
		tot, err := billing.Recompute(d("100"), d(rate))
		require.NoError(t, err, "tipo %s", rate)
		assert.True(t, tot.Total.Equal(tot.TaxableBase.Add(tot.Tax)))
	}
}

func TestRecompute_RedondeoMitadArriba(t *testing.T) {
	// 0.75 * 0.22 = 0.165 → 0.17 (el redondeo bancario daría 0.16)
	tot, err := billing.Recompute(d("0.75"), billing.DefaultTaxRate)
	require.NoError(t, err)
	assertDec(t, "0.17", tot.Tax, "iva")
	assertDec(t, "0.92", tot.Total, "total")

	// 10.25 * 0.22 = 2.255 → 2.26
	tot, err = billing.Recompute(d("10.25"), billing.DefaultTaxRate)
	require.NoError(t, err)
	assertDec(t, "2.26", tot.Tax, "iva")
	assertDec(t, "12.51", tot.Total, "total")
}

func TestRecompute_BaseConMasDeDosDecimales(t *testing.T) {
	tot, err := billing.Recompute(d("10.005"), billing.DefaultTaxRate)
	require.NoError(t, err)
	assertDec(t, "10.01", tot.TaxableBase, "base")
	assertDec(t, "2.20", tot.Tax, "iva")
	assert.True(t, tot.Total.Equal(tot.TaxableBase.Add(tot.Tax)), "total = base + iva")
}

func TestRecompute_Idempotente(t *testing.T) {
	a, err := billing.Recompute(d("1234.56"), billing.DefaultTaxRate)
	require.NoError(t, err)
	b, err := billing.Recompute(d("1234.56"), billing.DefaultTaxRate)
	require.NoError(t, err)
	assert.True(t, a.Tax.Equal(b.Tax))
	assert.True(t, a.Total.Equal(b.Total))

	// Recalcular desde la base ya normalizada no cambia nada.
	c, err := billing.Recompute(a.TaxableBase, a.TaxRate)
	require.NoError(t, err)
	assert.True(t, a.TaxableBase.Equal(c.TaxableBase))
	assert.True(t, a.Tax.Equal(c.Tax))
	assert.True(t, a.Total.Equal(c.Total))
}

func TestRecompute_TotalSiempreSumaDeCampos(t *testing.T) {
	for _, base := range []string{"0.01", "0.03", "1.99", "19.99", "333.33", "999999.99"} {
		tot, err := billing.Recompute(d(base), billing.DefaultTaxRate)
		require.NoError(t, err)
		assert.True(t, tot.Total.Equal(tot.TaxableBase.Add(tot.Tax)), "base %s", base)
	}
}

func TestLineTotal(t *testing.T) {
	lt, err := billing.LineTotal(d("3"), d("19.99"))
	require.NoError(t, err)
	assertDec(t, "59.97", lt, "línea")

	_, err = billing.LineTotal(d("0"), d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = billing.LineTotal(d("1"), d("-1"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = billing.LineTotal(d("0.0005"), d("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assertDec(t, "70.47", billing.SumLines([]decimal.Decimal{d("59.97"), d("10.50")}), "suma")
}

func TestValidateTotals(t *testing.T) {
	tot, err := billing.Recompute(d("100"), billing.DefaultTaxRate)
	require.NoError(t, err)
	inv := &entity.Invoice{TaxableBase: tot.TaxableBase, TaxRate: tot.TaxRate, Tax: tot.Tax, Total: tot.Total}
	assert.NoError(t, billing.ValidateTotals(inv, nil))

	lines := []*entity.InvoiceLine{{LineTotal: d("60")}, {LineTotal: d("40")}}
	assert.NoError(t, billing.ValidateTotals(inv, lines))

	bad := *inv
	bad.Total = d("121.99")
	err = billing.ValidateTotals(&bad, nil)
	assert.ErrorIs(t, err, billing.ErrInconsistentTotals)
	assert.Contains(t, err.Error(), "total")

	err = billing.ValidateTotals(inv, []*entity.InvoiceLine{{LineTotal: d("99")}})
	assert.ErrorIs(t, err, billing.ErrInconsistentTotals)
}
