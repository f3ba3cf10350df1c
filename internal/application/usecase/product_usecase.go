package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// Aliquote IVA admitidas para productos (porcentaje).
var allowedTaxRates = []decimal.Decimal{
	decimal.NewFromInt(0),
	decimal.NewFromInt(4),
	decimal.NewFromInt(5),
	decimal.NewFromInt(10),
	decimal.NewFromInt(22),
}

var defaultProductTaxRate = decimal.NewFromInt(22)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	ledger   *inventory.StockLedger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, ledger *inventory.StockLedger) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, ledger: ledger}
}

// Create crea un nuevo producto con stock 0; InitialQuantity se registra como ajuste en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("código y nombre obligatorios: %w", domain.ErrInvalidInput)
	}
	if in.InitialQuantity.IsNegative() || in.QuantityMinimum.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if in.Unit == "" {
		in.Unit = entity.UnitPiece
	}
	if !entity.ValidUnit(in.Unit) {
		return nil, fmt.Errorf("unidad %q: %w", in.Unit, domain.ErrInvalidInput)
	}
	taxRate := defaultProductTaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}
	if !validTaxRate(taxRate) {
		return nil, fmt.Errorf("aliquota %s%%: %w", taxRate, domain.ErrInvalidInput)
	}

	product := &entity.Product{
		Code:            code,
		Name:            name,
		Description:     in.Description,
		Category:        in.Category,
		Unit:            in.Unit,
		PurchasePrice:   in.PurchasePrice,
		SalePrice:       in.SalePrice,
		TaxRate:         taxRate,
		QuantityOnHand:  decimal.Zero,
		QuantityMinimum: in.QuantityMinimum,
		Supplier:        in.Supplier,
	}
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		existing, err := productRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("código %s: %w", code, domain.ErrDuplicate)
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		updated, err := uc.ledger.RecordInitialQuantity(ctx, movRepo, productRepo, product, in.InitialQuantity)
		if err != nil {
			return err
		}
		product = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// List productos por nombre.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProductFromEntity(p))
	}
	return out, nil
}

// Update actualiza un producto. No modifica el stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, fmt.Errorf("código obligatorio: %w", domain.ErrInvalidInput)
		}
		if code != product.Code {
			existing, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, fmt.Errorf("código %s: %w", code, domain.ErrDuplicate)
			}
		}
		product.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("nombre obligatorio: %w", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		if !entity.ValidUnit(*in.Unit) {
			return nil, fmt.Errorf("unidad %q: %w", *in.Unit, domain.ErrInvalidInput)
		}
		product.Unit = *in.Unit
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		product.SalePrice = *in.SalePrice
	}
	if in.TaxRate != nil {
		if !validTaxRate(*in.TaxRate) {
			return nil, fmt.Errorf("aliquota %s%%: %w", *in.TaxRate, domain.ErrInvalidInput)
		}
		product.TaxRate = *in.TaxRate
	}
	if in.QuantityMinimum != nil {
		if in.QuantityMinimum.IsNegative() {
			return nil, domain.ErrInvalidQuantity
		}
		product.QuantityMinimum = *in.QuantityMinimum
	}
	if in.Supplier != nil {
		product.Supplier = *in.Supplier
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.ProductFromEntity(product)
	return &out, nil
}

// Delete elimina el producto; sus movimientos se conservan.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.repo.Delete(ctx, id)
}

func validTaxRate(rate decimal.Decimal) bool {
	for _, r := range allowedTaxRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}
