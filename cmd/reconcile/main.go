// reconcile compara el stock cacheado de cada producto con la suma de su historial de movimientos
// y, salvo con -dry-run, corrige las diferencias.
//
// Uso: go run ./cmd/reconcile [-dry-run] [-product ID]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/rowstore"
	"github.com/jhoicas/gestionale-api/pkg/config"
	"github.com/jhoicas/gestionale-api/pkg/logger"
)

func main() {
	var (
		dryRun    bool
		productID int64
		timeout   time.Duration
	)
	flag.BoolVar(&dryRun, "dry-run", false, "solo informa, no corrige el stock")
	flag.Int64Var(&productID, "product", 0, "reconciliar solo este producto")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "tiempo máximo de ejecución")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "reconcile", Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	store := postgres.NewRowStore(pool)
	ledger := inventory.NewStockLedger(
		rowstore.NewTxRunner(store),
		rowstore.NewProductRepository(store),
		rowstore.NewStockMovementRepository(store),
		inventory.WithLogger(log.Component("reconcile")),
	)

	var out any
	if productID > 0 {
		out, err = ledger.Reconcile(ctx, productID, dryRun)
	} else {
		out, err = ledger.ReconcileAll(ctx, dryRun)
	}
	if err != nil {
		log.Error().Err(err).Int64("product_id", productID).Msg("reconciliación")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error().Err(err).Msg("escribir resultado")
		os.Exit(1)
	}
}
