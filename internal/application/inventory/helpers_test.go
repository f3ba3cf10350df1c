package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/rowstore"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// faultyStore envuelve el store en memoria e inyecta fallos dentro de las transacciones.
type faultyStore struct {
	*memory.Store
	fail func(op, table string, tx repository.RowStore) error
}

func (f *faultyStore) InTx(ctx context.Context, fn func(tx repository.RowStore) error) error {
	return f.Store.InTx(ctx, func(tx repository.RowStore) error {
		return fn(&faultyTx{RowStore: tx, fail: f.fail})
	})
}

type faultyTx struct {
	repository.RowStore
	fail func(op, table string, tx repository.RowStore) error
}

func (f *faultyTx) Insert(ctx context.Context, table string, row repository.Row) (repository.Row, error) {
	if err := f.fail("insert", table, f.RowStore); err != nil {
		return nil, err
	}
	return f.RowStore.Insert(ctx, table, row)
}

func (f *faultyTx) UpdateIf(ctx context.Context, table string, id int64, cond []repository.Filter, patch repository.Row) (repository.Row, error) {
	if err := f.fail("update", table, f.RowStore); err != nil {
		return nil, err
	}
	return f.RowStore.UpdateIf(ctx, table, id, cond, patch)
}

type countingObserver struct {
	applied  map[string]int
	drifts   int
	repaired int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{applied: map[string]int{}}
}

func (o *countingObserver) MovementApplied(kind string) { o.applied[kind]++ }
func (o *countingObserver) DriftDetected()              { o.drifts++ }
func (o *countingObserver) DriftRepaired()              { o.repaired++ }

type fixture struct {
	store    *memory.Store
	products *rowstore.ProductRepo
	movs     *rowstore.StockMovementRepo
	obs      *countingObserver
	ledger   *inventory.StockLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	return newFixtureWith(t, store, store)
}

func newFixtureWith(t *testing.T, store *memory.Store, tx repository.Transactor) *fixture {
	t.Helper()
	f := &fixture{
		store:    store,
		products: rowstore.NewProductRepository(store),
		movs:     rowstore.NewStockMovementRepository(store),
		obs:      newCountingObserver(),
	}
	f.ledger = inventory.NewStockLedger(rowstore.NewTxRunner(tx), f.products, f.movs, inventory.WithObserver(f.obs))
	return f
}

// seedProduct crea un producto y, si initial > 0, registra el stock inicial como ajuste.
func (f *fixture) seedProduct(t *testing.T, code, initial, minimum string) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{Code: code, Name: "Prodotto " + code, Unit: entity.UnitPiece, QuantityMinimum: d(minimum)}
	require.NoError(t, f.products.Create(ctx, p))
	if q := d(initial); q.IsPositive() {
		_, updated, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{
			ProductID: p.ID, Kind: entity.MovementAdjustment, Quantity: q,
		})
		require.NoError(t, err)
		p = updated
	}
	return p
}

func (f *fixture) onHand(t *testing.T, id int64) decimal.Decimal {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.QuantityOnHand
}

func (f *fixture) movements(t *testing.T, id int64) []*entity.StockMovement {
	t.Helper()
	movs, err := f.movs.ListByProduct(context.Background(), id, 0)
	require.NoError(t, err)
	return movs
}
