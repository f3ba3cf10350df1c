package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestionale-api/internal/application/agenda"
	"github.com/jhoicas/gestionale-api/internal/application/billing"
	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	Ledger        *inventory.StockLedger
	Replenishment *inventory.ReplenishmentUseCase
	CustomerUC    *billing.CustomerUseCase
	InvoiceUC     *billing.InvoiceUseCase
	AppointmentUC *agenda.AppointmentUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Products + ledger
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment)
	products.Get("/low-stock", inventoryHandler.LowStock)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/movements", inventoryHandler.History)
	products.Post("/:id/movements", inventoryHandler.RegisterMovement)
	products.Post("/:id/stocktake", inventoryHandler.Stocktake)
	products.Post("/:id/reconcile", inventoryHandler.Reconcile)

	api.Post("/inventory/reconcile", inventoryHandler.ReconcileAll)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Put("/:id/taxable-base", invoiceHandler.UpdateTaxableBase)
	invoices.Post("/:id/lines", invoiceHandler.AddLine)
	invoices.Put("/:id/status", invoiceHandler.UpdateStatus)

	// Appointments
	appointments := api.Group("/appointments")
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Get("/", appointmentHandler.List)
	appointments.Get("/:id", appointmentHandler.GetByID)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Delete("/:id", appointmentHandler.Delete)
	appointments.Put("/:id/status", appointmentHandler.UpdateStatus)
}
