package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestionale-api/internal/application/agenda"
	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/domain"
)

// AppointmentHandler maneja la agenda.
type AppointmentHandler struct {
	uc *agenda.AppointmentUseCase
}

func NewAppointmentHandler(uc *agenda.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cita
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAppointmentRequest  true  "Datos de la cita"
// @Success      201   {object}  dto.AppointmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAppointmentRequest
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
// @Summary      Agenda (orden cronológico)
// @Tags         appointments
// @Produce      json
// @Param        from    query  string  false  "Desde (RFC3339 o AAAA-MM-DD), incluido"
// @Param        to      query  string  false  "Hasta, excluido"
// @Param        status  query  string  false  "scheduled | completed | cancelled"
// @Success      200     {object}  dto.AppointmentListResponse
// @Router       /api/appointments [get]
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	in := dto.AppointmentFilterRequest{Status: c.Query("status"), PageRequest: page}
	if in.From, err = queryTime(c, "from"); err != nil {
		return respondError(c, err)
	}
	if in.To, err = queryTime(c, "to"); err != nil {
		return respondError(c, err)
	}
	if ok, err := checkStruct(c, &in); !ok {
		return err
	}
	items, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AppointmentListResponse{Items: items, Page: dto.PageOf(page, len(items))})
}

func (h *AppointmentHandler) GetByID(c *fiber.Ctx) error {
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

func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateAppointmentRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la cita
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la cita"
// @Param        body  body  dto.StatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.AppointmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
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

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// queryTime acepta RFC3339 o una fecha AAAA-MM-DD (medianoche UTC).
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s %q: %w", key, raw, domain.ErrInvalidInput)
}
