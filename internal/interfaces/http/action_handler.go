package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// ActionHandler endpoint genérico de operaciones puntuales sobre inventario:
// un solo POST con {action, payload} en vez de un endpoint por botón.
type ActionHandler struct {
	inventory repository.InventoryRepository
	locations repository.LocationRepository
}

// NewActionHandler construye el handler.
func NewActionHandler(inventory repository.InventoryRepository, locations repository.LocationRepository) *ActionHandler {
	return &ActionHandler{inventory: inventory, locations: locations}
}

type inventoryActionPayload struct {
	ProductID string             `json:"product_id"`
	Location  entity.LocationRef `json:"location"`
	Quantity  decimal.Decimal    `json:"quantity"`
	Delta     decimal.Decimal    `json:"delta"`
	Status    string             `json:"status"`
	MinStock  decimal.Decimal    `json:"min_stock"`
}

// Dispatch godoc
// @Summary      Ejecutar una acción puntual de inventario
// @Description  Acciones: get_inventory, update_inventory, apply_inventory_delta, update_audit_status, update_min_stock.
// @Tags         actions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActionRequest  true  "Acción y payload"
// @Success      200   {object}  dto.ActionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/actions [post]
func (h *ActionHandler) Dispatch(c *fiber.Ctx) error {
	var in dto.ActionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	var payload inventoryActionPayload
	if len(in.Payload) > 0 {
		if err := json.Unmarshal(in.Payload, &payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "payload inválido"})
		}
	}
	if payload.ProductID == "" || payload.Location.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y location son requeridos"})
	}
	loc, err := h.locations.GetByRef(payload.Location)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ActionResponse{Success: false, Error: err.Error()})
	}
	if loc == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
	}

	switch in.Action {
	case "get_inventory":
		rec, err := h.inventory.Get(payload.ProductID, payload.Location)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ActionResponse{Success: false, Error: err.Error()})
		}
		return c.JSON(dto.ActionResponse{Success: true, Data: rec})
	case "update_inventory":
		err = h.inventory.SetQuantity(payload.ProductID, payload.Location, payload.Quantity)
	case "apply_inventory_delta":
		err = h.inventory.ApplyDelta(payload.ProductID, payload.Location, payload.Delta)
	case "update_audit_status":
		if payload.Status != entity.AuditFull && payload.Status != entity.AuditInProgress && payload.Status != entity.AuditNone {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status de auditoría inválido"})
		}
		err = h.inventory.UpdateAuditStatus(payload.ProductID, payload.Location, payload.Status)
	case "update_min_stock":
		err = h.inventory.UpdateMinStock(payload.ProductID, payload.Location, payload.MinStock)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ActionResponse{Success: false, Error: "acción desconocida: " + in.Action})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ActionResponse{Success: false, Error: err.Error()})
	}
	return c.JSON(dto.ActionResponse{Success: true})
}
