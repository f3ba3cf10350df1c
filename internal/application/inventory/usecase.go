// Package inventory contiene los casos de uso del ledger de stock.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	stock "github.com/jhoicas/gestionale-api/internal/domain/inventory"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// StockLedger aplica movimientos de almacén manteniendo quantity_on_hand igual a la suma del historial.
// Cada escritura (movimiento + stock cacheado) ocurre en una sola transacción; el stock se escribe
// con compare-and-set sobre Product.Version y un conflicto se devuelve como ErrConcurrentUpdate.
type StockLedger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	obs         Observer
	log         zerolog.Logger
	now         func() time.Time
}

// Option configura el StockLedger.
type Option func(*StockLedger)

// WithObserver conecta las métricas.
func WithObserver(o Observer) Option {
	return func(l *StockLedger) {
		if o != nil {
			l.obs = o
		}
	}
}

// WithLogger fija el logger del componente.
func WithLogger(log zerolog.Logger) Option {
	return func(l *StockLedger) { l.log = log }
}

// WithClock fija el reloj usado para moved_at.
func WithClock(now func() time.Time) Option {
	return func(l *StockLedger) { l.now = now }
}

// NewStockLedger construye el caso de uso.
func NewStockLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	opts ...Option,
) *StockLedger {
	l := &StockLedger{
		txRunner:    txRunner,
		productRepo: productRepo,
		movRepo:     movRepo,
		obs:         nopObserver{},
		log:         zerolog.Nop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// MovementInput entrada de ApplyMovement. Quantity siempre positiva; el signo lo decide Kind.
type MovementInput struct {
	ProductID int64
	Kind      string
	Quantity  decimal.Decimal
	Note      string
}

// ApplyMovement registra el movimiento y actualiza el stock cacheado de forma incremental
// (prior + delta). Errores: ErrInvalidQuantity, ErrInvalidMovementKind, ErrProductNotFound,
// ErrConcurrentUpdate y StorageError; en todos los casos no queda ningún efecto parcial.
func (l *StockLedger) ApplyMovement(ctx context.Context, in MovementInput) (*entity.StockMovement, *entity.Product, error) {
	delta, err := stock.SignedDelta(in.Kind, in.Quantity)
	if err != nil {
		return nil, nil, err
	}

	var (
		mov     *entity.StockMovement
		updated *entity.Product
	)
	err = l.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		mov, updated, err = l.record(ctx, movRepo, productRepo, product, in.Kind, delta, in.Note)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	l.obs.MovementApplied(in.Kind)
	l.log.Debug().
		Int64("product_id", in.ProductID).
		Str("kind", in.Kind).
		Str("delta", delta.String()).
		Str("on_hand", updated.QuantityOnHand.String()).
		Msg("movimiento aplicado")
	return mov, updated, nil
}

// record añade el movimiento y escribe el stock con CAS. Debe llamarse dentro de una transacción.
func (l *StockLedger) record(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	kind string,
	delta decimal.Decimal,
	note string,
) (*entity.StockMovement, *entity.Product, error) {
	mov := &entity.StockMovement{
		ProductID: product.ID,
		Kind:      kind,
		Quantity:  delta,
		Note:      note,
		MovedAt:   l.now(),
	}
	if err := movRepo.Append(ctx, mov); err != nil {
		return nil, nil, err
	}
	updated, err := productRepo.UpdateQuantity(ctx, product.ID, product.QuantityOnHand.Add(delta), product.Version)
	if err != nil {
		return nil, nil, err
	}
	return mov, updated, nil
}

// RecordInitialQuantity registra el stock inicial de un producto recién creado como ajuste,
// usando los repos de la transacción del llamador.
func (l *StockLedger) RecordInitialQuantity(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	quantity decimal.Decimal,
) (*entity.Product, error) {
	if quantity.IsZero() {
		return product, nil
	}
	if quantity.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	_, updated, err := l.record(ctx, movRepo, productRepo, product, entity.MovementAdjustment, quantity, "stock iniziale")
	if err != nil {
		return nil, err
	}
	l.obs.MovementApplied(entity.MovementAdjustment)
	return updated, nil
}

// Stocktake lleva el stock al conteo físico con un inventory-adjustment de (counted - on_hand).
// Si ya coinciden no se registra nada y el movimiento devuelto es nil.
func (l *StockLedger) Stocktake(ctx context.Context, productID int64, counted decimal.Decimal, note string) (*entity.StockMovement, *entity.Product, error) {
	if counted.IsNegative() {
		return nil, nil, domain.ErrInvalidQuantity
	}
	if err := domain.CheckQuantityScale(counted); err != nil {
		return nil, nil, err
	}
	var (
		mov     *entity.StockMovement
		updated *entity.Product
	)
	err := l.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		delta, err := stock.StocktakeDelta(product.QuantityOnHand, counted)
		if err != nil {
			return err
		}
		if delta.IsZero() {
			updated = product
			return nil
		}
		mov, updated, err = l.record(ctx, movRepo, productRepo, product, entity.MovementAdjustment, delta, note)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	if mov != nil {
		l.obs.MovementApplied(entity.MovementAdjustment)
		l.log.Info().Int64("product_id", productID).Str("delta", mov.Quantity.String()).Msg("inventario físico registrado")
	}
	return mov, updated, nil
}

// History devuelve los movimientos del producto, el más reciente primero. limit 0 = todos.
func (l *StockLedger) History(ctx context.Context, productID int64, limit int) ([]*entity.StockMovement, error) {
	product, err := l.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return l.movRepo.ListByProduct(ctx, productID, limit)
}

// Reconcile compara el stock cacheado con la suma del historial y, salvo dryRun,
// corrige la desviación escribiendo el valor del historial.
func (l *StockLedger) Reconcile(ctx context.Context, productID int64, dryRun bool) (dto.ReconcileReport, error) {
	var report dto.ReconcileReport
	err := l.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		movs, err := movRepo.ListByProduct(ctx, productID, 0)
		if err != nil {
			return err
		}
		drift := stock.Compare(product.QuantityOnHand, movs)
		report = dto.ReconcileReport{
			ProductID: product.ID,
			Code:      product.Code,
			Cached:    drift.Cached,
			Ledger:    drift.Ledger,
			Drift:     drift.Difference,
		}
		if drift.InSync() || dryRun {
			return nil
		}
		if _, err := productRepo.UpdateQuantity(ctx, product.ID, drift.Ledger, product.Version); err != nil {
			return err
		}
		report.Repaired = true
		return nil
	})
	if err != nil {
		return dto.ReconcileReport{}, err
	}

	if !report.Drift.IsZero() {
		l.obs.DriftDetected()
		if report.Repaired {
			l.obs.DriftRepaired()
		}
		l.log.Warn().
			Int64("product_id", report.ProductID).
			Str("code", report.Code).
			Str("cached", report.Cached.String()).
			Str("ledger", report.Ledger.String()).
			Bool("repaired", report.Repaired).
			Msg("desviación entre stock y movimientos")
	}
	return report, nil
}

// ReconcileAll reconcilia todos los productos. Se detiene en el primer error.
func (l *StockLedger) ReconcileAll(ctx context.Context, dryRun bool) (dto.ReconcileSummary, error) {
	summary := dto.ReconcileSummary{DryRun: dryRun, Reports: []dto.ReconcileReport{}}
	products, err := l.productRepo.List(ctx, 0, 0)
	if err != nil {
		return summary, err
	}
	for _, p := range products {
		report, err := l.Reconcile(ctx, p.ID, dryRun)
		if err != nil {
			return summary, fmt.Errorf("reconciliar %s: %w", p.Code, err)
		}
		summary.Checked++
		if report.Drift.IsZero() {
			continue
		}
		summary.Drifted++
		if report.Repaired {
			summary.Repaired++
		}
		summary.Reports = append(summary.Reports, report)
	}
	l.log.Info().
		Int("checked", summary.Checked).
		Int("drifted", summary.Drifted).
		Int("repaired", summary.Repaired).
		Bool("dry_run", dryRun).
		Msg("reconciliación completada")
	return summary, nil
}
