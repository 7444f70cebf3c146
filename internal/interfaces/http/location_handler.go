package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// LocationHandler expone el registro de sucursales y bodegas activas.
type LocationHandler struct {
	locations repository.LocationRepository
}

// NewLocationHandler construye el handler.
func NewLocationHandler(locations repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// List godoc
// @Summary      Listar sucursales y bodegas activas
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Location
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	locations, err := h.locations.ListActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(locations)
}
