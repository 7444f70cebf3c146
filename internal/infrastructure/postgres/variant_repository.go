package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo definiciones y cantidades de variantes sobre PostgreSQL.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// ListDefinitionsByProducts definiciones de todos los productos indicados en UNA consulta.
func (r *VariantRepo) ListDefinitionsByProducts(productIDs []string) ([]*entity.VariantDefinition, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, product_id, kind, name, COALESCE(color_code, ''), COALESCE(image_url, ''), sort_order
		FROM variant_definitions WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order, name`
	rows, err := r.q.Query(context.Background(), query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list variant definitions: %w", err)
	}
	defer rows.Close()

	var defs []*entity.VariantDefinition
	for rows.Next() {
		var d entity.VariantDefinition
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Kind, &d.Name, &d.ColorCode, &d.ImageURL, &d.SortOrder); err != nil {
			return nil, fmt.Errorf("scan variant definition: %w", err)
		}
		defs = append(defs, &d)
	}
	return defs, rows.Err()
}

// ListQuantitiesByDefinitions cantidades de todas las definiciones indicadas en UNA consulta.
func (r *VariantRepo) ListQuantitiesByDefinitions(definitionIDs []string) ([]*entity.VariantQuantity, error) {
	if len(definitionIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT definition_id, branch_id, quantity
		FROM variant_quantities WHERE definition_id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, definitionIDs)
	if err != nil {
		return nil, fmt.Errorf("list variant quantities: %w", err)
	}
	defer rows.Close()

	var quantities []*entity.VariantQuantity
	for rows.Next() {
		var vq entity.VariantQuantity
		if err := rows.Scan(&vq.DefinitionID, &vq.BranchID, &vq.Quantity); err != nil {
			return nil, fmt.Errorf("scan variant quantity: %w", err)
		}
		quantities = append(quantities, &vq)
	}
	return quantities, rows.Err()
}

// GetOrCreateUnspecified devuelve la definición reservada del bucket sin
// especificar del producto, creándola de forma diferida. La creación es un
// upsert contra el unique (product_id, name): dos commits concurrentes
// convergen en la misma fila.
func (r *VariantRepo) GetOrCreateUnspecified(productID string) (*entity.VariantDefinition, error) {
	ctx := context.Background()
	query := `
		SELECT id, product_id, kind, name, COALESCE(color_code, ''), COALESCE(image_url, ''), sort_order
		FROM variant_definitions WHERE product_id = $1 AND name = $2`
	var d entity.VariantDefinition
	err := r.q.QueryRow(ctx, query, productID, entity.UnspecifiedVariantName).Scan(
		&d.ID, &d.ProductID, &d.Kind, &d.Name, &d.ColorCode, &d.ImageURL, &d.SortOrder,
	)
	if err == nil {
		return &d, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get unspecified variant: %w", err)
	}

	d = entity.VariantDefinition{
		ID:        uuid.New().String(),
		ProductID: productID,
		Kind:      entity.VariantColor,
		Name:      entity.UnspecifiedVariantName,
		SortOrder: 9999,
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO variant_definitions (id, product_id, kind, name, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, name) DO UPDATE SET sort_order = variant_definitions.sort_order
		RETURNING id`,
		d.ID, d.ProductID, d.Kind, d.Name, d.SortOrder,
	).Scan(&d.ID)
	if err != nil {
		return nil, fmt.Errorf("create unspecified variant: %w", err)
	}
	return &d, nil
}

// ApplyQuantityDelta aplica un delta con signo a la cantidad de una variante en
// una sucursal, acotando a cero con el mismo upsert atómico que el inventario.
func (r *VariantRepo) ApplyQuantityDelta(definitionID, branchID string, delta decimal.Decimal) error {
	ctx := context.Background()
	if delta.IsNegative() {
		_, err := r.q.Exec(ctx, `
			UPDATE variant_quantities SET quantity = GREATEST(0, quantity + $3)
			WHERE definition_id = $1 AND branch_id = $2`,
			definitionID, branchID, delta,
		)
		if err != nil {
			return fmt.Errorf("apply variant delta: %w", err)
		}
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO variant_quantities (definition_id, branch_id, quantity)
		VALUES ($1, $2, GREATEST(0, $3::numeric))
		ON CONFLICT (definition_id, branch_id)
		DO UPDATE SET quantity = GREATEST(0, variant_quantities.quantity + $3)`,
		definitionID, branchID, delta,
	)
	if err != nil {
		return fmt.Errorf("apply variant delta: %w", err)
	}
	return nil
}
