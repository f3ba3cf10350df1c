package agenda_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestionale-api/internal/application/agenda"
	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/rowstore"
)

var now = time.Date(2026, 5, 12, 15, 0, 0, 0, time.UTC)

func newUseCase(strict bool) (*agenda.AppointmentUseCase, *rowstore.CustomerRepo) {
	store := memory.New()
	customers := rowstore.NewCustomerRepository(store)
	uc := agenda.NewAppointmentUseCase(rowstore.NewAppointmentRepository(store), customers, strict,
		agenda.WithClock(func() time.Time { return now }))
	return uc, customers
}

func at(h int, dayOffset int) time.Time {
	return time.Date(2026, 5, 12+dayOffset, h, 0, 0, 0, time.UTC)
}

func TestCreate_FlagsYCliente(t *testing.T) {
	ctx := context.Background()
	uc, customers := newUseCase(true)
	c := &entity.Customer{FirstName: "Elena", LastName: "Verdi"}
	require.NoError(t, customers.Create(ctx, c))

	past, err := uc.Create(ctx, dto.CreateAppointmentRequest{Title: "Sopralluogo", StartsAt: at(9, 0), CustomerID: &c.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentScheduled, past.Status)
	assert.True(t, past.IsToday)
	assert.True(t, past.IsOverdue)
	require.NotNil(t, past.Customer)
	assert.Equal(t, "Elena Verdi", past.Customer.DisplayName)

	future, err := uc.Create(ctx, dto.CreateAppointmentRequest{Title: "Consegna", StartsAt: at(9, 1)})
	require.NoError(t, err)
	assert.False(t, future.IsToday)
	assert.False(t, future.IsOverdue)

	missing := int64(99)
	_, err = uc.Create(ctx, dto.CreateAppointmentRequest{Title: "X", StartsAt: at(9, 1), CustomerID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	before := at(8, 1)
	_, err = uc.Create(ctx, dto.CreateAppointmentRequest{Title: "X", StartsAt: at(9, 1), EndsAt: &before})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateAppointmentRequest{Title: " ", StartsAt: at(9, 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_OrdenYRango(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(true)
	for _, s := range []time.Time{at(18, 2), at(8, 0), at(12, 1)} {
		_, err := uc.Create(ctx, dto.CreateAppointmentRequest{Title: s.Format(time.Kitchen), StartsAt: s})
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, dto.AppointmentFilterRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartsAt.Equal(at(8, 0)))
	assert.True(t, all[2].StartsAt.Equal(at(18, 2)))

	from, to := at(0, 1), at(0, 2)
	day, err := uc.List(ctx, dto.AppointmentFilterRequest{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.True(t, day[0].StartsAt.Equal(at(12, 1)))

	_, err = uc.List(ctx, dto.AppointmentFilterRequest{From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(true)
	a, err := uc.Create(ctx, dto.CreateAppointmentRequest{Title: "Visita", StartsAt: at(10, 0)})
	require.NoError(t, err)

	out, err := uc.Transition(ctx, a.ID, entity.AppointmentCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentCompleted, out.Status)
	assert.False(t, out.IsOverdue)

	_, err = uc.Transition(ctx, a.ID, entity.AppointmentCompleted)
	require.NoError(t, err)
	_, err = uc.Transition(ctx, a.ID, entity.AppointmentCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Transition(ctx, a.ID, "postponed")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Transition(ctx, 404, entity.AppointmentCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	lax, _ := newUseCase(false)
	b, err := lax.Create(ctx, dto.CreateAppointmentRequest{Title: "Visita", StartsAt: at(10, 0)})
	require.NoError(t, err)
	_, err = lax.Transition(ctx, b.ID, entity.AppointmentCancelled)
	require.NoError(t, err)
	out, err = lax.Transition(ctx, b.ID, entity.AppointmentScheduled)
	require.NoError(t, err)
	assert.Equal(t, entity.AppointmentScheduled, out.Status)
}

func TestUpdateYDelete(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(true)
	a, err := uc.Create(ctx, dto.CreateAppointmentRequest{Title: "Visita", StartsAt: at(10, 1)})
	require.NoError(t, err)
	_, err = uc.Transition(ctx, a.ID, entity.AppointmentCancelled)
	require.NoError(t, err)

	out, err := uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{Title: "Visita tecnica", StartsAt: at(11, 1), Location: "Torino"})
	require.NoError(t, err)
	assert.Equal(t, "Visita tecnica", out.Title)
	assert.Equal(t, "Torino", out.Location)
	assert.Equal(t, entity.AppointmentCancelled, out.Status, "update no cambia el estado")

	_, err = uc.Update(ctx, 404, dto.UpdateAppointmentRequest{Title: "X", StartsAt: at(11, 1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrNotFound)
}
