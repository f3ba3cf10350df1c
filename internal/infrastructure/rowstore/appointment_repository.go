package rowstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

type AppointmentRepo struct {
	s repository.RowStore
}

func NewAppointmentRepository(s repository.RowStore) *AppointmentRepo {
	return &AppointmentRepo{s: s}
}

func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	out, err := r.s.Insert(ctx, repository.TableAppointments, appointmentToRow(a))
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	*a = *appointmentFromRow(out)
	return nil
}

// GetByID incluye el cliente; nil, nil si no existe.
func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*entity.Appointment, error) {
	rows, err := r.s.Select(ctx, repository.TableAppointments, repository.Query{
		Filters: []repository.Filter{repository.Eq("id", id)},
		Limit:   1,
		Embed:   []string{"customer"},
	})
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return appointmentFromRow(rows[0]), nil
}

// List agenda en orden cronológico; From incluido, To excluido.
func (r *AppointmentRepo) List(ctx context.Context, f repository.AppointmentFilter) ([]*entity.Appointment, error) {
	q := repository.Query{
		Order:  []repository.Order{{Column: "starts_at"}, {Column: "id"}},
		Limit:  f.Limit,
		Offset: f.Offset,
		Embed:  []string{"customer"},
	}
	if f.From != nil {
		q.Filters = append(q.Filters, repository.Filter{Column: "starts_at", Op: repository.OpGte, Value: *f.From})
	}
	if f.To != nil {
		q.Filters = append(q.Filters, repository.Filter{Column: "starts_at", Op: repository.OpLt, Value: *f.To})
	}
	if f.Status != "" {
		q.Filters = append(q.Filters, repository.Eq("status", f.Status))
	}
	rows, err := r.s.Select(ctx, repository.TableAppointments, q)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	list := make([]*entity.Appointment, 0, len(rows))
	for _, row := range rows {
		list = append(list, appointmentFromRow(row))
	}
	return list, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	out, err := r.s.Update(ctx, repository.TableAppointments, a.ID, appointmentToRow(a))
	if err != nil {
		return wrapNotFound("update appointment", err)
	}
	customer := a.Customer
	*a = *appointmentFromRow(out)
	a.Customer = customer
	return nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	if _, err := r.s.Update(ctx, repository.TableAppointments, id, repository.Row{"status": status}); err != nil {
		return wrapNotFound("update appointment status", err)
	}
	return nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.Delete(ctx, repository.TableAppointments, id); err != nil {
		return wrapNotFound("delete appointment", err)
	}
	return nil
}

func wrapNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
