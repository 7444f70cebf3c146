package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/cart"
	"github.com/jhoicas/Tienda-api/internal/application/checkout"
	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// CheckoutHandler confirma pestañas del carrito como facturas (protegido).
type CheckoutHandler struct {
	manager  *cart.Manager
	pipeline *checkout.Pipeline
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(manager *cart.Manager, pipeline *checkout.Pipeline) *CheckoutHandler {
	return &CheckoutHandler{manager: manager, pipeline: pipeline}
}

// Commit godoc
// @Summary      Confirmar la pestaña del carrito como factura
// @Description  Confirma la pestaña indicada (o la activa) y la cierra si el commit llegó a factura. Las advertencias de reconciliación no fatales viajan en la respuesta: la factura queda en pie aunque existan.
// @Tags         checkout
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitRequest  false  "Pestaña a confirmar (vacío = activa)"
// @Success      201   {object}  dto.CommitResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/checkout/commit [post]
func (h *CheckoutHandler) Commit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CommitRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	var tab *entity.CartSession
	var err error
	if in.TabID != "" {
		tab, err = h.manager.Tab(in.TabID)
	} else {
		tab, err = h.manager.ActiveTab()
	}
	if err != nil {
		return domainError(c, err)
	}

	result, err := h.pipeline.Commit(c.Context(), tab, userID)
	if err != nil {
		return domainError(c, err)
	}

	// La pestaña ya se volvió factura; si el cierre falla solo queda una
	// pestaña huérfana, no un estado contable inconsistente.
	if err := h.manager.CloseTab(c.Context(), tab.ID); err != nil {
		result.Warnings = append(result.Warnings, "la pestaña confirmada no se pudo cerrar: "+err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
