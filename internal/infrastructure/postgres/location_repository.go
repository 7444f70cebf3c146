package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo lectura de sucursales y bodegas como una sola vista de ubicaciones.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// ListActive devuelve sucursales y bodegas activas (UNION de las dos tablas).
func (r *LocationRepo) ListActive() ([]*entity.Location, error) {
	query := `
		SELECT id, 'BRANCH' AS kind, name, active FROM branches WHERE active
		UNION ALL
		SELECT id, 'WAREHOUSE' AS kind, name, active FROM warehouses WHERE active
		ORDER BY kind, name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Kind, &l.Name, &l.Active); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}

// GetByRef obtiene una ubicación por su referencia tipada.
func (r *LocationRepo) GetByRef(ref entity.LocationRef) (*entity.Location, error) {
	table := "branches"
	if ref.Kind == entity.LocationWarehouse {
		table = "warehouses"
	}
	query := `SELECT id, name, active FROM ` + table + ` WHERE id = $1`
	l := entity.Location{Kind: ref.Kind}
	err := r.q.QueryRow(context.Background(), query, ref.ID).Scan(&l.ID, &l.Name, &l.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}
