package rowstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con el store o una tx).
type CustomerRepo struct {
	s repository.RowStore
}

// NewCustomerRepository construye el adaptador.
func NewCustomerRepository(s repository.RowStore) *CustomerRepo {
	return &CustomerRepo{s: s}
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	out, err := r.s.Insert(ctx, repository.TableCustomers, customerToRow(c))
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	*c = *customerFromRow(out)
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	rows, err := r.s.Select(ctx, repository.TableCustomers, repository.Query{
		Filters: []repository.Filter{repository.Eq("id", id)},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return customerFromRow(rows[0]), nil
}

// List lista clientes, los más recientes primero.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.s.Select(ctx, repository.TableCustomers, repository.Query{
		Order:  []repository.Order{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}},
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	list := make([]*entity.Customer, 0, len(rows))
	for _, row := range rows {
		list = append(list, customerFromRow(row))
	}
	return list, nil
}

// Update actualiza un cliente existente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	out, err := r.s.Update(ctx, repository.TableCustomers, c.ID, customerToRow(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update customer: %w", err)
	}
	*c = *customerFromRow(out)
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.Delete(ctx, repository.TableCustomers, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}
