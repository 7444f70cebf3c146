package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/cart"
	"github.com/jhoicas/Tienda-api/internal/application/dto"
)

// CartHandler maneja las pestañas del carrito (protegido).
type CartHandler struct {
	manager *cart.Manager
}

// NewCartHandler construye el handler.
func NewCartHandler(manager *cart.Manager) *CartHandler {
	return &CartHandler{manager: manager}
}

// Tabs godoc
// @Summary      Estado completo del administrador de pestañas
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TabsResponse
// @Router       /api/cart/tabs [get]
func (h *CartHandler) Tabs(c *fiber.Ctx) error {
	return c.JSON(h.manager.Tabs())
}

// NewTab godoc
// @Summary      Crear una pestaña y volverla activa
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NewTabRequest  true  "Título y modo"
// @Success      201   {object}  entity.CartSession
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cart/tabs [post]
func (h *CartHandler) NewTab(c *fiber.Ctx) error {
	var in dto.NewTabRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tab, err := h.manager.NewTab(c.Context(), in.Title, in.Mode)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tab)
}

// SwitchTab godoc
// @Summary      Cambiar la pestaña activa
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la pestaña"
// @Success      200  {object}  dto.TabsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/tabs/{id}/activate [post]
func (h *CartHandler) SwitchTab(c *fiber.Ctx) error {
	if err := h.manager.SwitchTab(c.Context(), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// CloseTab godoc
// @Summary      Destruir una pestaña
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la pestaña"
// @Success      200  {object}  dto.TabsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/tabs/{id} [delete]
func (h *CartHandler) CloseTab(c *fiber.Ctx) error {
	if err := h.manager.CloseTab(c.Context(), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// Postpone godoc
// @Summary      Aparcar una pestaña con carrito no vacío
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la pestaña"
// @Success      200  {object}  dto.TabsResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cart/tabs/{id}/postpone [post]
func (h *CartHandler) Postpone(c *fiber.Ctx) error {
	if err := h.manager.Postpone(c.Context(), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// RestorePostponed godoc
// @Summary      Devolver una pestaña pospuesta a la franja visible
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la pestaña"
// @Success      200  {object}  dto.TabsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/tabs/{id}/restore [post]
func (h *CartHandler) RestorePostponed(c *fiber.Ctx) error {
	if err := h.manager.RestorePostponed(c.Context(), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// SetMode godoc
// @Summary      Cambiar modo y/o flag de devolución de la pestaña activa
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetModeRequest  true  "Modo y/o flag"
// @Success      200   {object}  dto.TabsResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/mode [put]
func (h *CartHandler) SetMode(c *fiber.Ctx) error {
	var in dto.SetModeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.manager.SetMode(c.Context(), in); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// SetContext godoc
// @Summary      Fijar las selecciones de contexto de la pestaña activa
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetContextRequest  true  "Contraparte, ubicaciones, caja, nivel de precio"
// @Success      200   {object}  dto.TabsResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/context [put]
func (h *CartHandler) SetContext(c *fiber.Ctx) error {
	var in dto.SetContextRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.manager.SetContext(c.Context(), in); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// AddItem godoc
// @Summary      Agregar una línea a la pestaña activa
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddItemRequest  true  "Producto, cantidad y reparto de variantes"
// @Success      200   {object}  dto.TabsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.manager.AddItem(c.Context(), in); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// AddDraftItem godoc
// @Summary      Agregar una línea con un producto aún no existente en el catálogo
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddDraftItemRequest  true  "Nombre, cantidad y precios"
// @Success      200   {object}  dto.TabsResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items/draft [post]
func (h *CartHandler) AddDraftItem(c *fiber.Ctx) error {
	var in dto.AddDraftItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.manager.AddDraftItem(c.Context(), in); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// RemoveItem godoc
// @Summary      Eliminar una línea de la pestaña activa
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.TabsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.manager.RemoveItem(c.Context(), c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// ClearItems godoc
// @Summary      Vaciar la pestaña activa
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TabsResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cart/items [delete]
func (h *CartHandler) ClearItems(c *fiber.Ctx) error {
	if err := h.manager.ClearItems(c.Context()); err != nil {
		return domainError(c, err)
	}
	return c.JSON(h.manager.Tabs())
}

// BeginEdit godoc
// @Summary      Abrir una pestaña de edición ligada a una factura confirmada
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        invoiceID  path  string  true  "ID de la factura"
// @Success      201  {object}  entity.CartSession
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/edit/{invoiceID} [post]
func (h *CartHandler) BeginEdit(c *fiber.Ctx) error {
	tab, err := h.manager.BeginEdit(c.Context(), c.Params("invoiceID"))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tab)
}
