package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
)

func TestCustomerUseCase_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	_, err := f.customers.Create(ctx, dto.CreateCustomerRequest{FirstName: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := f.customers.Create(ctx, dto.CreateCustomerRequest{
		FirstName: " Marco ", LastName: "Bianchi", Province: "mi", FiscalCode: "bncmrc80a01f205x",
	})
	require.NoError(t, err)
	assert.Equal(t, "Marco", c.FirstName)
	assert.Equal(t, "Marco Bianchi", c.DisplayName)
	assert.Equal(t, "MI", c.Province)
	assert.Equal(t, "BNCMRC80A01F205X", c.FiscalCode)

	updated, err := f.customers.Update(ctx, c.ID, dto.UpdateCustomerRequest{FirstName: "Marco", CompanyName: "Bianchi & C."})
	require.NoError(t, err)
	assert.Equal(t, "Bianchi & C.", updated.DisplayName)
	assert.Empty(t, updated.LastName, "update reemplaza todos los campos")

	_, err = f.customers.Update(ctx, 999, dto.UpdateCustomerRequest{FirstName: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.customers.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.customers.Delete(ctx, c.ID))
	_, err = f.customers.Get(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUseCase_ListaRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	for _, name := range []string{"Primo", "Secondo", "Terzo"} {
		_, err := f.customers.Create(ctx, dto.CreateCustomerRequest{FirstName: name})
		require.NoError(t, err)
	}
	list, err := f.customers.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Terzo", list[0].FirstName)
	assert.Equal(t, "Secondo", list[1].FirstName)
}
