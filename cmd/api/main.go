package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/gestionale-api/internal/application/agenda"
	"github.com/jhoicas/gestionale-api/internal/application/billing"
	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/application/usecase"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/metrics"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/rowstore"
	httpRouter "github.com/jhoicas/gestionale-api/internal/interfaces/http"
	"github.com/jhoicas/gestionale-api/pkg/config"
	"github.com/jhoicas/gestionale-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	var store repository.TransactionalStore
	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		store = memory.New()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.RunMigrations(pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		store = postgres.NewRowStore(pool)
	}

	productRepo := rowstore.NewProductRepository(store)
	movementRepo := rowstore.NewStockMovementRepository(store)
	customerRepo := rowstore.NewCustomerRepository(store)
	invoiceRepo := rowstore.NewInvoiceRepository(store)
	appointmentRepo := rowstore.NewAppointmentRepository(store)
	txRunner := rowstore.NewTxRunner(store)

	var reg *metrics.Registry
	ledgerOpts := []inventory.Option{inventory.WithLogger(log.Component("ledger"))}
	var invoiceObs billing.Observer
	if cfg.Metrics.Enabled {
		reg = metrics.New(cfg.App.Name)
		ledgerOpts = append(ledgerOpts, inventory.WithObserver(reg))
		invoiceObs = reg
	}

	ledger := inventory.NewStockLedger(txRunner, productRepo, movementRepo, ledgerOpts...)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, customerRepo, billing.InvoiceConfig{
		DefaultTaxRate:  cfg.Billing.DefaultTaxRate,
		StrictLifecycle: cfg.Billing.StrictLifecycle,
	}, invoiceObs, log.Component("billing"))
	appointmentUC := agenda.NewAppointmentUseCase(appointmentRepo, customerRepo, cfg.Billing.StrictLifecycle,
		agenda.WithLogger(log.Component("agenda")))

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:     cfg.App.Name,
		DocsPath: cfg.HTTP.DocsPath,
		Metrics:  reg,
		Logger:   log.Component("http"),
	}, httpRouter.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(productRepo, txRunner, ledger),
		Ledger:        ledger,
		Replenishment: inventory.NewReplenishmentUseCase(productRepo),
		CustomerUC:    billing.NewCustomerUseCase(customerRepo),
		InvoiceUC:     invoiceUC,
		AppointmentUC: appointmentUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
