// Package agenda casos de uso de citas.
package agenda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
	fiscal "github.com/jhoicas/gestionale-api/internal/domain/billing"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// AppointmentUseCase CRUD de citas y cambio de estado.
type AppointmentUseCase struct {
	repo         repository.AppointmentRepository
	customerRepo repository.CustomerRepository
	lifecycle    *fiscal.Lifecycle
	log          zerolog.Logger
	now          func() time.Time
}

// Option configura el caso de uso.
type Option func(*AppointmentUseCase)

// WithClock fija el reloj usado para is_today / is_overdue.
func WithClock(now func() time.Time) Option {
	return func(uc *AppointmentUseCase) { uc.now = now }
}

// WithLogger fija el logger.
func WithLogger(l zerolog.Logger) Option {
	return func(uc *AppointmentUseCase) { uc.log = l }
}

// NewAppointmentUseCase construye el caso de uso; strict aplica la tabla de transiciones.
func NewAppointmentUseCase(repo repository.AppointmentRepository, customerRepo repository.CustomerRepository, strict bool, opts ...Option) *AppointmentUseCase {
	uc := &AppointmentUseCase{
		repo:         repo,
		customerRepo: customerRepo,
		lifecycle:    fiscal.AppointmentLifecycle(strict),
		log:          zerolog.Nop(),
		now:          time.Now,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Create agenda una cita nueva en estado scheduled.
func (uc *AppointmentUseCase) Create(ctx context.Context, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	a, err := uc.fromRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AppointmentScheduled
	customer := a.Customer
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	a.Customer = customer
	return uc.response(a), nil
}

func (uc *AppointmentUseCase) Get(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return uc.response(a), nil
}

// List agenda cronológica con filtros opcionales de rango y estado.
func (uc *AppointmentUseCase) List(ctx context.Context, in dto.AppointmentFilterRequest) ([]dto.AppointmentResponse, error) {
	if in.Status != "" && !uc.lifecycle.Valid(in.Status) {
		return nil, fmt.Errorf("estado %q: %w", in.Status, domain.ErrInvalidInput)
	}
	if in.From != nil && in.To != nil && !in.To.After(*in.From) {
		return nil, fmt.Errorf("rango vacío: %w", domain.ErrInvalidInput)
	}
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.AppointmentFilter{
		From:   in.From,
		To:     in.To,
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]dto.AppointmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AppointmentFromEntity(a, now))
	}
	return out, nil
}

// Update reemplaza los datos de la cita; el estado no cambia.
func (uc *AppointmentUseCase) Update(ctx context.Context, id int64, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	a, err := uc.fromRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	a.ID = id
	a.Status = current.Status
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return uc.response(a), nil
}

// Transition cambia el estado de la cita. Mismo estado: no-op.
func (uc *AppointmentUseCase) Transition(ctx context.Context, id int64, to string) (*dto.AppointmentResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.lifecycle.Check(a.Status, to); err != nil {
		return nil, fmt.Errorf("%s → %s: %w", a.Status, to, err)
	}
	if a.Status != to {
		if err := uc.repo.UpdateStatus(ctx, id, to); err != nil {
			return nil, err
		}
		uc.log.Debug().Int64("appointment_id", id).Str("from", a.Status).Str("to", to).Msg("estado de cita cambiado")
		a.Status = to
	}
	return uc.response(a), nil
}

func (uc *AppointmentUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *AppointmentUseCase) fromRequest(ctx context.Context, in dto.CreateAppointmentRequest) (*entity.Appointment, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("título obligatorio: %w", domain.ErrInvalidInput)
	}
	if in.StartsAt.IsZero() {
		return nil, fmt.Errorf("starts_at obligatorio: %w", domain.ErrInvalidInput)
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return nil, fmt.Errorf("ends_at anterior a starts_at: %w", domain.ErrInvalidInput)
	}
	a := &entity.Appointment{
		CustomerID:  in.CustomerID,
		Title:       title,
		Description: in.Description,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Location:    in.Location,
		Reminder:    in.Reminder,
	}
	if in.CustomerID != nil {
		c, err := uc.customerRepo.GetByID(ctx, *in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("cliente %d: %w", *in.CustomerID, domain.ErrNotFound)
		}
		a.Customer = c
	}
	return a, nil
}

func (uc *AppointmentUseCase) response(a *entity.Appointment) *dto.AppointmentResponse {
	out := dto.AppointmentFromEntity(a, uc.now())
	return &out
}
