package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. first_name es obligatorio.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := customerFromRequest(in)
	if customer.FirstName == "" {
		return nil, fmt.Errorf("first_name obligatorio: %w", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	out := dto.CustomerFromEntity(customer)
	return &out, nil
}

// Get obtiene un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.CustomerFromEntity(c)
	return &out, nil
}

// List lista clientes, los más recientes primero.
func (uc *CustomerUseCase) List(ctx context.Context, limit, offset int) ([]dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CustomerFromEntity(c))
	}
	return out, nil
}

// Update reemplaza los datos del cliente.
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := customerFromRequest(in)
	if customer.FirstName == "" {
		return nil, fmt.Errorf("first_name obligatorio: %w", domain.ErrInvalidInput)
	}
	customer.ID = id
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	out := dto.CustomerFromEntity(customer)
	return &out, nil
}

// Delete elimina el cliente; sus facturas y citas quedan sin cliente.
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func customerFromRequest(in dto.CreateCustomerRequest) *entity.Customer {
	return &entity.Customer{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       in.Phone,
		Mobile:      in.Mobile,
		Address:     in.Address,
		City:        in.City,
		PostalCode:  in.PostalCode,
		Province:    strings.ToUpper(strings.TrimSpace(in.Province)),
		FiscalCode:  strings.ToUpper(strings.TrimSpace(in.FiscalCode)),
		VATNumber:   strings.TrimSpace(in.VATNumber),
		Notes:       in.Notes,
	}
}
