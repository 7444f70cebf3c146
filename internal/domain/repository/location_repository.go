package repository

import "github.com/jhoicas/Tienda-api/internal/domain/entity"

// LocationRepository define el puerto de lectura de sucursales y bodegas
// (tablas branches y warehouses fusionadas en una sola vista de ubicaciones).
type LocationRepository interface {
	// ListActive devuelve sucursales y bodegas activas en una consulta por tabla.
	ListActive() ([]*entity.Location, error)
	GetByRef(ref entity.LocationRef) (*entity.Location, error)
}
