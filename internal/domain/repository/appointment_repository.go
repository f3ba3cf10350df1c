package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

// AppointmentFilter filtros de agenda; From/To acotan starts_at.
type AppointmentFilter struct {
	From   *time.Time
	To     *time.Time
	Status string
	Limit  int
	Offset int
}

// AppointmentRepository define el puerto de persistencia de la agenda.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	GetByID(ctx context.Context, id int64) (*entity.Appointment, error)
	// List ordena por starts_at ascendente e incluye el cliente.
	List(ctx context.Context, f AppointmentFilter) ([]*entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}
