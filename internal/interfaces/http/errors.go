package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
)

// errorMapping de más específico a más genérico; gana la primera coincidencia.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidMovementKind, fiber.StatusBadRequest, "INVALID_MOVEMENT_KIND"},
	{domain.ErrInvalidAmount, fiber.StatusBadRequest, "INVALID_AMOUNT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrInvoiceNotFound, fiber.StatusNotFound, "INVOICE_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConcurrentUpdate, fiber.StatusConflict, "CONCURRENT_UPDATE"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrInvoiceNotEditable, fiber.StatusConflict, "NOT_EDITABLE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrStorage, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
}

// respondError traduce un error de dominio a status + dto.ErrorResponse.
// Los fallos de almacenamiento y los inesperados se registran; el detalle interno no sale al cliente.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := err.Error()
		if m.status == fiber.StatusServiceUnavailable {
			requestLogger(c).Error().Err(err).Msg("fallo de almacenamiento")
			msg = "almacenamiento no disponible, intente más tarde"
		}
		return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
	}
	requestLogger(c).Error().Err(err).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// paramID lee :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", raw, domain.ErrInvalidInput)
	}
	return id, nil
}

// requestLogger devuelve el logger con request_id que deja el middleware, o uno vacío.
func requestLogger(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(localLogger).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
