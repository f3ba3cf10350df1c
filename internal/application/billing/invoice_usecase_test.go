package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestionale-api/internal/application/billing"
	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/rowstore"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type transitions struct{ seen []string }

func (o *transitions) InvoiceTransition(from, to string) { o.seen = append(o.seen, from+">"+to) }

type fixture struct {
	invoices  *billing.InvoiceUseCase
	customers *billing.CustomerUseCase
	repo      *rowstore.InvoiceRepo
	obs       *transitions
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	return newFixtureOn(t, memory.New(), strict)
}

func newFixtureOn(t *testing.T, store repository.TransactionalStore, strict bool) *fixture {
	t.Helper()
	invoiceRepo := rowstore.NewInvoiceRepository(store)
	customerRepo := rowstore.NewCustomerRepository(store)
	obs := &transitions{}
	return &fixture{
		invoices: billing.NewInvoiceUseCase(rowstore.NewTxRunner(store), invoiceRepo, customerRepo,
			billing.InvoiceConfig{StrictLifecycle: strict}, obs, zerolog.Nop()),
		customers: billing.NewCustomerUseCase(customerRepo),
		repo:      invoiceRepo,
		obs:       obs,
	}
}

func (f *fixture) draft(t *testing.T, number, base string) *dto.InvoiceResponse {
	t.Helper()
	inv, err := f.invoices.Create(context.Background(), dto.CreateInvoiceRequest{Number: number, TaxableBase: d(base)})
	require.NoError(t, err)
	return inv
}

func TestCreate_TotalesPersistidos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	bases := []string{"100", "0", "10.01", "0.05", "999999.99", "12.345"}
	for i, base := range bases {
		created := f.draft(t, "F"+decimal.NewFromInt(int64(i)).String(), base)
		stored, err := f.repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)

		assert.Equal(t, entity.InvoiceDraft, stored.Status)
		assert.True(t, stored.Total.Equal(stored.TaxableBase.Add(stored.Tax)), "total = base + iva (%s)", base)
		assert.True(t, stored.Tax.Equal(stored.TaxableBase.Mul(d("0.22")).Round(2)), "iva redondeado (%s)", base)
		assert.True(t, stored.TaxRate.Equal(d("0.22")))
	}
}

func TestCreate_BaseDesdeLineas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		Number:      "2026/001",
		TaxableBase: d("5000"),
		Lines: []dto.InvoiceLineRequest{
			{Description: "Consulenza", Quantity: d("2"), UnitPrice: d("45.50")},
			{Description: "Trasferta", Quantity: d("1"), UnitPrice: d("19.999")},
		},
	})
	require.NoError(t, err)
	assert.True(t, inv.TaxableBase.Equal(d("111")), "91 + 20, la base enviada se ignora; got %s", inv.TaxableBase)
	assert.True(t, inv.Tax.Equal(d("24.42")))
	assert.True(t, inv.Total.Equal(d("135.42")))
	require.Len(t, inv.Lines, 2)

	got, err := f.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Lines, 2)
}

func TestCreate_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.draft(t, "A-1", "10")

	_, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "A-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "A-2", TaxableBase: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	missing := int64(404)
	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "A-3", CustomerID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "A-4", Lines: []dto.InvoiceLineRequest{
		{Description: "x", Quantity: d("0"), UnitPrice: d("1")},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	list, err := f.invoices.List(ctx, repository.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1, "ninguna creación fallida deja filas")
}

func TestCreate_ConCliente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	c, err := f.customers.Create(ctx, dto.CreateCustomerRequest{FirstName: "Giulia", CompanyName: "Rossi Srl"})
	require.NoError(t, err)

	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "C-1", CustomerID: &c.ID, TaxableBase: d("50")})
	require.NoError(t, err)
	require.NotNil(t, inv.Customer)
	assert.Equal(t, "Rossi Srl", inv.Customer.DisplayName)

	list, err := f.invoices.List(ctx, repository.InvoiceFilter{CustomerID: &c.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Customer)
	assert.Equal(t, c.ID, list[0].Customer.ID)
}

func TestUpdateTaxableBase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	inv := f.draft(t, "B-1", "100")

	rate := d("0.10")
	out, err := f.invoices.UpdateTaxableBase(ctx, inv.ID, dto.TaxableBaseRequest{TaxableBase: d("80.555"), TaxRate: &rate})
	require.NoError(t, err)
	assert.True(t, out.TaxableBase.Equal(d("80.56")))
	assert.True(t, out.Tax.Equal(d("8.06")))
	assert.True(t, out.Total.Equal(d("88.62")))

	stored, err := f.repo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(d("88.62")))

	_, err = f.invoices.UpdateTaxableBase(ctx, 999, dto.TaxableBaseRequest{TaxableBase: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	_, err = f.invoices.Transition(ctx, inv.ID, entity.InvoiceIssued)
	require.NoError(t, err)
	_, err = f.invoices.UpdateTaxableBase(ctx, inv.ID, dto.TaxableBaseRequest{TaxableBase: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotEditable)
}

func TestAddLine_RecalculaBase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	inv := f.draft(t, "L-1", "0")

	_, err := f.invoices.AddLine(ctx, inv.ID, dto.InvoiceLineRequest{Description: "Pezzo", Quantity: d("3"), UnitPrice: d("10")})
	require.NoError(t, err)
	out, err := f.invoices.AddLine(ctx, inv.ID, dto.InvoiceLineRequest{Description: "Montaggio", Quantity: d("1"), UnitPrice: d("20")})
	require.NoError(t, err)

	assert.True(t, out.TaxableBase.Equal(d("50")))
	assert.True(t, out.Total.Equal(d("61")))
	assert.Len(t, out.Lines, 2)

	_, err = f.invoices.UpdateTaxableBase(ctx, inv.ID, dto.TaxableBaseRequest{TaxableBase: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "con líneas la base no se fija a mano")
}

func TestTransition_Estricto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	inv := f.draft(t, "T-1", "100")

	_, err := f.invoices.Transition(ctx, inv.ID, entity.InvoicePaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	out, err := f.invoices.Transition(ctx, inv.ID, entity.InvoiceIssued)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceIssued, out.Status)
	assert.True(t, out.Total.Equal(d("122")), "el cambio de estado no toca los totales")

	_, err = f.invoices.Transition(ctx, inv.ID, entity.InvoiceIssued)
	require.NoError(t, err, "mismo estado es un no-op")

	_, err = f.invoices.Transition(ctx, inv.ID, entity.InvoicePaid)
	require.NoError(t, err)
	_, err = f.invoices.Transition(ctx, inv.ID, entity.InvoiceVoided)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.invoices.Transition(ctx, inv.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.Transition(ctx, 999, entity.InvoiceIssued)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)

	assert.Equal(t, []string{"draft>issued", "issued>paid"}, f.obs.seen)
}

func TestTransition_Permisivo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	inv := f.draft(t, "P-1", "10")

	_, err := f.invoices.Transition(ctx, inv.ID, entity.InvoicePaid)
	require.NoError(t, err)
	out, err := f.invoices.Transition(ctx, inv.ID, entity.InvoiceDraft)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceDraft, out.Status)
}

func TestPreview(t *testing.T) {
	f := newFixture(t, true)
	out, err := f.invoices.Preview(dto.PreviewTotalsRequest{TaxableBase: d("33.33")})
	require.NoError(t, err)
	assert.True(t, out.Tax.Equal(d("7.33")))
	assert.True(t, out.Total.Equal(d("40.66")))

	_, err = f.invoices.Preview(dto.PreviewTotalsRequest{TaxableBase: d("-0.01")})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDelete_BorraLineas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "D-1", Lines: []dto.InvoiceLineRequest{
		{Description: "x", Quantity: d("1"), UnitPrice: d("1")},
	}})
	require.NoError(t, err)

	require.NoError(t, f.invoices.Delete(ctx, inv.ID))
	lines, err := f.repo.ListLines(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = f.invoices.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	assert.ErrorIs(t, f.invoices.Delete(ctx, inv.ID), domain.ErrInvoiceNotFound)
}

// deleteFails hace fallar los borrados sobre una tabla, dentro y fuera de transacción.
type deleteFails struct {
	repository.RowStore
	table string
}

func (s deleteFails) Delete(ctx context.Context, table string, id int64) error {
	if table == s.table {
		return domain.NewStorageError("delete", table, errors.New("disco lleno"))
	}
	return s.RowStore.Delete(ctx, table, id)
}

type deleteFailsStore struct {
	deleteFails
	inner *memory.Store
}

func (s deleteFailsStore) InTx(ctx context.Context, fn func(tx repository.RowStore) error) error {
	return s.inner.InTx(ctx, func(tx repository.RowStore) error {
		return fn(deleteFails{RowStore: tx, table: s.table})
	})
}

func TestDelete_FalloCabeceraConservaLineas(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	f := newFixtureOn(t, deleteFailsStore{deleteFails{RowStore: inner, table: repository.TableInvoices}, inner}, true)

	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{Number: "D-2", Lines: []dto.InvoiceLineRequest{
		{Description: "consulenza", Quantity: d("1"), UnitPrice: d("100")},
	}})
	require.NoError(t, err)

	err = f.invoices.Delete(ctx, inv.ID)
	require.ErrorIs(t, err, domain.ErrStorage)

	got, err := f.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1, "las líneas sobreviven al borrado fallido")
	assert.True(t, got.TaxableBase.Equal(d("100")))
	assert.True(t, got.Total.Equal(d("122")))
}
