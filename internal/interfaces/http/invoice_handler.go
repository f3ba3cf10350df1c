package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestionale-api/internal/application/billing"
	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// InvoiceHandler maneja facturas: totales, líneas y ciclo de vida.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear factura en borrador
// @Description  Si se envían líneas, la base imponible es la suma de sus importes.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar facturas (más recientes primero)
// @Tags         invoices
// @Produce      json
// @Param        status       query  string  false  "draft | issued | paid | voided"
// @Param        customer_id  query  int     false  "Cliente"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	f := repository.InvoiceFilter{Status: c.Query("status"), Limit: page.Limit, Offset: page.Offset}
	if raw := c.Query("customer_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return respondError(c, fmt.Errorf("customer_id %q: %w", raw, domain.ErrInvalidInput))
		}
		f.CustomerID = &id
	}
	items, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceListResponse{Items: items, Page: dto.PageOf(page, len(items))})
}

// GetByID godoc
// @Summary      Obtener factura con cliente y líneas
// @Tags         invoices
// @Produce      json
// @Param        id   path  int  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Preview godoc
// @Summary      Calcular IVA y total sin guardar
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewTotalsRequest  true  "taxable_base, tax_rate opcional"
// @Success      200   {object}  dto.TotalsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewTotalsRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, domain.ErrInvalidAmount)
	}
	out, err := h.uc.Preview(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateTaxableBase godoc
// @Summary      Fijar base imponible (solo borrador sin líneas)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la factura"
// @Param        body  body  dto.TaxableBaseRequest  true  "taxable_base, tax_rate opcional"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/taxable-base [put]
func (h *InvoiceHandler) UpdateTaxableBase(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.TaxableBaseRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, domain.ErrInvalidAmount)
	}
	out, err := h.uc.UpdateTaxableBase(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Añadir línea (solo borrador)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la factura"
// @Param        body  body  dto.InvoiceLineRequest  true  "Línea"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/lines [post]
func (h *InvoiceHandler) AddLine(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.InvoiceLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddLine(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado
// @Description  draft → issued → paid; draft/issued → voided. Mismo estado: sin cambios.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la factura"
// @Param        body  body  dto.StatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.StatusRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Transition(c.UserContext(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura y sus líneas
// @Tags         invoices
// @Param        id   path  int  true  "ID de la factura"
// @Success      204
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
