package rowstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (usable con el store o una tx).
type ProductRepo struct {
	s repository.RowStore
}

// NewProductRepository construye el adaptador.
func NewProductRepository(s repository.RowStore) *ProductRepo {
	return &ProductRepo{s: s}
}

// Create persiste un producto con su stock inicial y version 1.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	row := productToRow(p)
	row["quantity_on_hand"] = p.QuantityOnHand
	row["version"] = int64(1)
	out, err := r.s.Insert(ctx, repository.TableProducts, row)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	*p = *productFromRow(out)
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, repository.Eq("id", id))
}

// GetByCode obtiene un producto por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return r.getOne(ctx, repository.Eq("code", code))
}

func (r *ProductRepo) getOne(ctx context.Context, f repository.Filter) (*entity.Product, error) {
	rows, err := r.s.Select(ctx, repository.TableProducts, repository.Query{
		Filters: []repository.Filter{f},
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return productFromRow(rows[0]), nil
}

// List lista productos por nombre; limit 0 = todos.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.s.Select(ctx, repository.TableProducts, repository.Query{
		Order:  []repository.Order{{Column: "name"}, {Column: "id"}},
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, productFromRow(row))
	}
	return list, nil
}

// Update actualiza los datos descriptivos y precios.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	out, err := r.s.Update(ctx, repository.TableProducts, p.ID, productToRow(p))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	*p = *productFromRow(out)
	return nil
}

// UpdateQuantity compare-and-set sobre version.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id int64, quantity decimal.Decimal, expectedVersion int64) (*entity.Product, error) {
	out, err := r.s.UpdateIf(ctx, repository.TableProducts, id,
		[]repository.Filter{repository.Eq("version", expectedVersion)},
		repository.Row{"quantity_on_hand": quantity, "version": expectedVersion + 1},
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrentUpdate):
			return nil, err
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product quantity: %w", err)
	}
	return productFromRow(out), nil
}

// Delete elimina el producto; sus movimientos se conservan.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.Delete(ctx, repository.TableProducts, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
