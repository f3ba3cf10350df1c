package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestionale-api/internal/application/dto"
	"github.com/jhoicas/gestionale-api/internal/application/inventory"
	"github.com/jhoicas/gestionale-api/internal/domain"
)

// InventoryHandler maneja movimientos de stock, inventario físico y reconciliación.
type InventoryHandler struct {
	ledger        *inventory.StockLedger
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  kind: load | unload | return | inventory-adjustment. quantity > 0; unload resta.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.RegisterMovementRequest  true  "kind, quantity, note"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		// una cantidad no numérica cuenta como cantidad inválida
		return respondError(c, domain.ErrInvalidQuantity)
	}
	if ok, err := checkStruct(c, &in); !ok {
		return err
	}
	mov, product, err := h.ledger.ApplyMovement(c.UserContext(), inventory.MovementInput{
		ProductID: id,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Note:      in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	m := dto.MovementFromEntity(mov)
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResultResponse{Movement: &m, Product: dto.ProductFromEntity(product)})
}

// History godoc
// @Summary      Historial de movimientos (más recientes primero)
// @Tags         inventory
// @Produce      json
// @Param        id     path   int  true   "ID del producto"
// @Param        limit  query  int  false  "Límite (0 = todos)"
// @Success      200    {array}  dto.MovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 || limit > 1000 {
		limit = 1000
	}
	movs, err := h.ledger.History(c.UserContext(), id, limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(out)
}

// Stocktake godoc
// @Summary      Inventario físico
// @Description  Registra un ajuste por la diferencia entre lo contado y el stock actual.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.StocktakeRequest  true  "counted, note"
// @Success      200   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stocktake [post]
func (h *InventoryHandler) Stocktake(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.StocktakeRequest
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, domain.ErrInvalidQuantity)
	}
	if ok, err := checkStruct(c, &in); !ok {
		return err
	}
	mov, product, err := h.ledger.Stocktake(c.UserContext(), id, in.Counted, in.Note)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.MovementResultResponse{Product: dto.ProductFromEntity(product)}
	if mov != nil {
		m := dto.MovementFromEntity(mov)
		out.Movement = &m
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reconciliar stock de un producto con su historial
// @Tags         inventory
// @Produce      json
// @Param        id       path   int   true   "ID del producto"
// @Param        dry_run  query  bool  false  "Solo informar, sin corregir"
// @Success      200      {object}  dto.ReconcileReport
// @Router       /api/products/{id}/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.ledger.Reconcile(c.UserContext(), id, c.QueryBool("dry_run", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ReconcileAll godoc
// @Summary      Reconciliar todo el almacén
// @Tags         inventory
// @Produce      json
// @Param        dry_run  query  bool  false  "Solo informar, sin corregir"
// @Success      200      {object}  dto.ReconcileSummary
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) ReconcileAll(c *fiber.Ctx) error {
	summary, err := h.ledger.ReconcileAll(c.UserContext(), c.QueryBool("dry_run", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// LowStock godoc
// @Summary      Productos bajo mínimo
// @Description  Stock en o por debajo del mínimo, con la cantidad sugerida para volver a 1.5 veces el mínimo.
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  dto.LowStockItem
// @Router       /api/products/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.replenishment.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
