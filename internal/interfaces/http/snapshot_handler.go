package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/catalog"
	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/realtime"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// SnapshotHandler expone la vista agregada del catálogo con existencias.
type SnapshotHandler struct {
	builder    *catalog.SnapshotBuilder
	reconciler *realtime.Reconciler
}

// NewSnapshotHandler construye el handler.
func NewSnapshotHandler(builder *catalog.SnapshotBuilder, reconciler *realtime.Reconciler) *SnapshotHandler {
	return &SnapshotHandler{builder: builder, reconciler: reconciler}
}

// Get godoc
// @Summary      Snapshot del catálogo con existencias, variantes e imágenes
// @Description  Sin filtro sirve el último snapshot reconciliado si existe; con ?locations=KIND:id,KIND:id construye al vuelo solo esas ubicaciones.
// @Tags         snapshot
// @Security     Bearer
// @Produce      json
// @Param        locations  query  string  false  "Filtro BRANCH:id,WAREHOUSE:id"
// @Success      200  {array}   dto.ProductSnapshot
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/snapshot [get]
func (h *SnapshotHandler) Get(c *fiber.Ctx) error {
	filter, err := parseLocationFilter(c.Query("locations"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtro de ubicaciones inválido (formato KIND:id)"})
	}

	if len(filter) == 0 && h.reconciler != nil {
		if latest := h.reconciler.Latest(); latest != nil {
			return c.JSON(latest)
		}
	}

	snapshot, err := h.builder.Build(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(snapshot)
}

// parseLocationFilter interpreta "BRANCH:b1,WAREHOUSE:w2".
func parseLocationFilter(raw string) ([]entity.LocationRef, error) {
	if raw == "" {
		return nil, nil
	}
	var refs []entity.LocationRef
	for _, part := range strings.Split(raw, ",") {
		kind, id, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || id == "" || (kind != entity.LocationBranch && kind != entity.LocationWarehouse) {
			return nil, fiber.ErrBadRequest
		}
		refs = append(refs, entity.LocationRef{Kind: kind, ID: id})
	}
	return refs, nil
}
