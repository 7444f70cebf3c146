package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo filas producto+ubicación sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene la fila de un producto en una ubicación. Sin fila devuelve nil (creación diferida).
func (r *InventoryRepo) Get(productID string, loc entity.LocationRef) (*entity.InventoryRecord, error) {
	query := `
		SELECT product_id, location_kind, location_id, quantity, min_stock, audit_status, updated_at
		FROM inventory WHERE product_id = $1 AND location_kind = $2 AND location_id = $3`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(context.Background(), query, productID, loc.Kind, loc.ID).Scan(
		&rec.ProductID, &rec.Location.Kind, &rec.Location.ID,
		&rec.Quantity, &rec.MinStock, &rec.AuditStatus, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &rec, nil
}

// ListByProducts devuelve todas las filas de inventario de los productos indicados en UNA consulta.
func (r *InventoryRepo) ListByProducts(productIDs []string) ([]*entity.InventoryRecord, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT product_id, location_kind, location_id, quantity, min_stock, audit_status, updated_at
		FROM inventory WHERE product_id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var records []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(
			&rec.ProductID, &rec.Location.Kind, &rec.Location.ID,
			&rec.Quantity, &rec.MinStock, &rec.AuditStatus, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// ApplyDelta aplica un delta con signo en una sola sentencia atómica, acotando
// la cantidad a cero en el storage. El acotamiento NO puede hacerse leyendo y
// reescribiendo desde la aplicación: dos commits concurrentes se pisarían.
// Con delta negativo y fila inexistente no inserta nada (una devolución de un
// producto jamás movido no debe materializar filas en cero).
func (r *InventoryRepo) ApplyDelta(productID string, loc entity.LocationRef, delta decimal.Decimal) error {
	ctx := context.Background()
	if delta.IsNegative() {
		_, err := r.q.Exec(ctx, `
			UPDATE inventory SET quantity = GREATEST(0, quantity + $4), updated_at = now()
			WHERE product_id = $1 AND location_kind = $2 AND location_id = $3`,
			productID, loc.Kind, loc.ID, delta,
		)
		if err != nil {
			return fmt.Errorf("apply inventory delta: %w", err)
		}
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (product_id, location_kind, location_id, quantity, min_stock, audit_status, updated_at)
		VALUES ($1, $2, $3, GREATEST(0, $4::numeric), 0, 'NONE', now())
		ON CONFLICT (product_id, location_kind, location_id)
		DO UPDATE SET quantity = GREATEST(0, inventory.quantity + $4), updated_at = now()`,
		productID, loc.Kind, loc.ID, delta,
	)
	if err != nil {
		return fmt.Errorf("apply inventory delta: %w", err)
	}
	return nil
}

// TotalOnHand suma la existencia del producto en todas las ubicaciones.
func (r *InventoryRepo) TotalOnHand(productID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total on hand: %w", err)
	}
	return total, nil
}

// UpdateAuditStatus marca el estado de conteo físico de una fila.
func (r *InventoryRepo) UpdateAuditStatus(productID string, loc entity.LocationRef, status string) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO inventory (product_id, location_kind, location_id, quantity, min_stock, audit_status, updated_at)
		VALUES ($1, $2, $3, 0, 0, $4, now())
		ON CONFLICT (product_id, location_kind, location_id)
		DO UPDATE SET audit_status = $4, updated_at = now()`,
		productID, loc.Kind, loc.ID, status,
	)
	if err != nil {
		return fmt.Errorf("update audit status: %w", err)
	}
	return nil
}

// UpdateMinStock fija el umbral de stock mínimo de una fila.
func (r *InventoryRepo) UpdateMinStock(productID string, loc entity.LocationRef, min decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO inventory (product_id, location_kind, location_id, quantity, min_stock, audit_status, updated_at)
		VALUES ($1, $2, $3, 0, $4, 'NONE', now())
		ON CONFLICT (product_id, location_kind, location_id)
		DO UPDATE SET min_stock = $4, updated_at = now()`,
		productID, loc.Kind, loc.ID, min,
	)
	if err != nil {
		return fmt.Errorf("update min stock: %w", err)
	}
	return nil
}

// SetQuantity fija la cantidad absoluta (ajustes manuales y conteos físicos).
func (r *InventoryRepo) SetQuantity(productID string, loc entity.LocationRef, qty decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO inventory (product_id, location_kind, location_id, quantity, min_stock, audit_status, updated_at)
		VALUES ($1, $2, $3, GREATEST(0, $4::numeric), 0, 'NONE', now())
		ON CONFLICT (product_id, location_kind, location_id)
		DO UPDATE SET quantity = GREATEST(0, $4::numeric), updated_at = now()`,
		productID, loc.Kind, loc.ID, qty,
	)
	if err != nil {
		return fmt.Errorf("set inventory quantity: %w", err)
	}
	return nil
}
