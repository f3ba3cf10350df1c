package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestionale-api/internal/application/agenda"
	"github.com/jhoicas/gestionale-api/internal/application/billing"
	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/application/usecase"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/memory"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/metrics"
	"github.com/jhoicas/gestionale-api/internal/infrastructure/rowstore"
	apphttp "github.com/jhoicas/gestionale-api/internal/interfaces/http"
)

// newTestApp arma la aplicación completa sobre el store en memoria.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	reg := metrics.New("test")
	tx := rowstore.NewTxRunner(store)
	products := rowstore.NewProductRepository(store)
	movs := rowstore.NewStockMovementRepository(store)
	customers := rowstore.NewCustomerRepository(store)
	invoices := rowstore.NewInvoiceRepository(store)

	ledger := inventory.NewStockLedger(tx, products, movs, inventory.WithObserver(reg))
	return apphttp.NewApp(apphttp.AppOptions{Name: "test", Metrics: reg, Logger: zerolog.Nop()}, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(products, tx, ledger),
		Ledger:        ledger,
		Replenishment: inventory.NewReplenishmentUseCase(products),
		CustomerUC:    billing.NewCustomerUseCase(customers),
		InvoiceUC: billing.NewInvoiceUseCase(tx, invoices, customers,
			billing.InvoiceConfig{StrictLifecycle: true}, reg, zerolog.Nop()),
		AppointmentUC: agenda.NewAppointmentUseCase(rowstore.NewAppointmentRepository(store), customers, true),
	})
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(bytes.NewReader(data)).Decode(&out), string(data))
	return out
}

func errorCode(t *testing.T, data []byte) string {
	return decode[dto.ErrorResponse](t, data).Code
}

func createProduct(t *testing.T, app *fiber.App, body string) dto.ProductResponse {
	t.Helper()
	resp, data := do(t, app, "POST", "/api/products", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	return decode[dto.ProductResponse](t, data)
}

func TestHealthYRequestID(t *testing.T) {
	app := newTestApp(t)
	resp, data := do(t, app, "GET", "/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"status":"ok"`)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "7f1c1d0e-8a5b-4c1e-9d2f-0a1b2c3d4e5f")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "7f1c1d0e-8a5b-4c1e-9d2f-0a1b2c3d4e5f", resp.Header.Get("X-Request-ID"))

	resp, data = do(t, app, "GET", "/api/nada", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, data))
}

func TestMovimientos_FlujoCompleto(t *testing.T) {
	app := newTestApp(t)
	p := createProduct(t, app, `{"code":"OLIO-1","name":"Olio EVO 1l","unit":"lt","initial_quantity":"10","quantity_minimum":"4"}`)
	assert.True(t, p.QuantityOnHand.Equal(decimal.NewFromInt(10)))

	resp, data := do(t, app, "POST", "/api/products/"+itoa(p.ID)+"/movements", `{"kind":"unload","quantity":"7"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	res := decode[dto.MovementResultResponse](t, data)
	require.NotNil(t, res.Movement)
	assert.True(t, res.Movement.Quantity.Equal(decimal.NewFromInt(-7)))
	assert.True(t, res.Product.QuantityOnHand.Equal(decimal.NewFromInt(3)))
	assert.True(t, res.Product.LowStock)

	resp, data = do(t, app, "GET", "/api/products/low-stock", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	low := decode[[]dto.LowStockItem](t, data)
	require.Len(t, low, 1)
	assert.True(t, low[0].SuggestedOrderQty.Equal(decimal.NewFromInt(3)), "6 - 3")

	resp, data = do(t, app, "POST", "/api/products/"+itoa(p.ID)+"/stocktake", `{"counted":"5"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	res = decode[dto.MovementResultResponse](t, data)
	assert.True(t, res.Product.QuantityOnHand.Equal(decimal.NewFromInt(5)))

	resp, data = do(t, app, "GET", "/api/products/"+itoa(p.ID)+"/movements", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.MovementResponse](t, data), 3)

	resp, data = do(t, app, "POST", "/api/products/"+itoa(p.ID)+"/reconcile?dry_run=true", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	report := decode[dto.ReconcileReport](t, data)
	assert.True(t, report.Drift.IsZero())

	resp, data = do(t, app, "POST", "/api/inventory/reconcile", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.ReconcileSummary](t, data).Checked)

	resp, data = do(t, app, "GET", "/metrics", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `gestionale_stock_movements_total{kind="unload",service="test"} 1`)
}

func TestMovimientos_Errores(t *testing.T) {
	app := newTestApp(t)
	p := createProduct(t, app, `{"code":"A","name":"A"}`)
	path := "/api/products/" + itoa(p.ID) + "/movements"

	cases := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"cantidad cero", path, `{"kind":"load","quantity":"0"}`, 400, "INVALID_QUANTITY"},
		{"cantidad negativa", path, `{"kind":"load","quantity":"-5"}`, 400, "INVALID_QUANTITY"},
		{"cantidad no numérica", path, `{"kind":"load","quantity":"abc"}`, 400, "INVALID_QUANTITY"},
		{"cantidad con cuatro decimales", path, `{"kind":"load","quantity":"0.0004"}`, 400, "INVALID_QUANTITY"},
		{"tipo vacío", path, `{"kind":"","quantity":"1"}`, 400, "INVALID_MOVEMENT_KIND"},
		{"nota demasiado larga", path, `{"kind":"load","quantity":"1","note":"` + strings.Repeat("x", 501) + `"}`, 400, "VALIDATION"},
		{"inventario nota demasiado larga", "/api/products/" + itoa(p.ID) + "/stocktake", `{"counted":"3","note":"` + strings.Repeat("x", 501) + `"}`, 400, "VALIDATION"},
		{"inventario con cuatro decimales", "/api/products/" + itoa(p.ID) + "/stocktake", `{"counted":"3.0001"}`, 400, "INVALID_QUANTITY"},
		{"tipo desconocido", path, `{"kind":"transfer","quantity":"1"}`, 400, "INVALID_MOVEMENT_KIND"},
		{"producto inexistente", "/api/products/999/movements", `{"kind":"load","quantity":"1"}`, 404, "PRODUCT_NOT_FOUND"},
		{"id inválido", "/api/products/abc/movements", `{"kind":"load","quantity":"1"}`, 400, "VALIDATION"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, data := do(t, app, "POST", c.path, c.body)
			assert.Equal(t, c.status, resp.StatusCode, string(data))
			assert.Equal(t, c.code, errorCode(t, data))
		})
	}

	resp, data := do(t, app, "GET", "/api/products/"+itoa(p.ID), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.ProductResponse](t, data).QuantityOnHand.IsZero(), "ningún intento fallido cambió el stock")
}

func TestProductos_Validacion(t *testing.T) {
	app := newTestApp(t)
	createProduct(t, app, `{"code":"A","name":"A"}`)

	resp, data := do(t, app, "POST", "/api/products", `{"code":"A","name":"B"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, data))

	resp, data = do(t, app, "POST", "/api/products", `{"code":"B","name":"B","unit":"box"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, data))

	resp, _ = do(t, app, "POST", "/api/products", `{"code":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "GET", "/api/products?limit=1000", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFacturas_Flujo(t *testing.T) {
	app := newTestApp(t)

	resp, data := do(t, app, "POST", "/api/customers", `{"first_name":"Paola","company_name":"Bar Centrale"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	customer := decode[dto.CustomerResponse](t, data)

	resp, data = do(t, app, "POST", "/api/invoices/preview", `{"taxable_base":"0.75"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	preview := decode[dto.TotalsResponse](t, data)
	assert.True(t, preview.Tax.Equal(decimal.RequireFromString("0.17")), "0.165 redondea a 0.17")
	assert.True(t, preview.Total.Equal(decimal.RequireFromString("0.92")))

	resp, data = do(t, app, "POST", "/api/invoices", `{"number":"2026/7","customer_id":`+itoa(customer.ID)+`,"taxable_base":"100"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	inv := decode[dto.InvoiceResponse](t, data)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(122)))

	resp, data = do(t, app, "PUT", "/api/invoices/"+itoa(inv.ID)+"/taxable-base", `{"taxable_base":"200"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	assert.True(t, decode[dto.InvoiceResponse](t, data).Total.Equal(decimal.NewFromInt(244)))

	resp, data = do(t, app, "PUT", "/api/invoices/"+itoa(inv.ID)+"/status", `{"status":"paid"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, data))

	resp, _ = do(t, app, "PUT", "/api/invoices/"+itoa(inv.ID)+"/status", `{"status":"issued"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, data = do(t, app, "POST", "/api/invoices/"+itoa(inv.ID)+"/lines", `{"description":"x","quantity":"1","unit_price":"1"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "NOT_EDITABLE", errorCode(t, data))

	resp, data = do(t, app, "GET", "/api/invoices/"+itoa(inv.ID), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.InvoiceResponse](t, data)
	assert.Equal(t, "issued", got.Status)
	assert.True(t, got.Total.Equal(got.TaxableBase.Add(got.Tax)))
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Bar Centrale", got.Customer.DisplayName)

	resp, data = do(t, app, "GET", "/api/invoices?status=issued", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decode[dto.InvoiceListResponse](t, data).Items, 1)

	resp, data = do(t, app, "POST", "/api/invoices", `{"number":"2026/7"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, data))

	resp, data = do(t, app, "POST", "/api/invoices/preview", `{"taxable_base":"-1"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_AMOUNT", errorCode(t, data))

	resp, data = do(t, app, "POST", "/api/invoices/preview", `{"taxable_base":"100","tax_rate":"22"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "el tipo es una fracción: 22% es 0.22")
	assert.Equal(t, "INVALID_AMOUNT", errorCode(t, data))

	resp, data = do(t, app, "POST", "/api/invoices", `{"number":"2026/8","taxable_base":"100","tax_rate":"22"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_AMOUNT", errorCode(t, data))

	resp, data = do(t, app, "POST", "/api/invoices/preview", `{"taxable_base":"100","tax_rate":"0.04"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, decode[dto.TotalsResponse](t, data).Total.Equal(decimal.NewFromInt(104)))

	resp, data = do(t, app, "GET", "/api/invoices/999", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "INVOICE_NOT_FOUND", errorCode(t, data))
}

func TestCitas_Flujo(t *testing.T) {
	app := newTestApp(t)
	resp, data := do(t, app, "POST", "/api/appointments", `{"title":"Consegna","starts_at":"2030-01-10T09:00:00Z"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	a := decode[dto.AppointmentResponse](t, data)
	assert.Equal(t, "scheduled", a.Status)

	resp, data = do(t, app, "GET", "/api/appointments?from=2030-01-10&to=2030-01-11", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	list := decode[dto.AppointmentListResponse](t, data)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, dto.PageResponse{Limit: 50, Count: 1}, list.Page)

	resp, _ = do(t, app, "GET", "/api/appointments?from=ieri", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, app, "PUT", "/api/appointments/"+itoa(a.ID)+"/status", `{"status":"cancelled"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, data = do(t, app, "PUT", "/api/appointments/"+itoa(a.ID)+"/status", `{"status":"completed"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, data))

	resp, _ = do(t, app, "DELETE", "/api/appointments/"+itoa(a.ID), "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
