package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.name, p.barcode, p.price, p.price2, p.price3, p.price4, p.price5,
	p.wholesale, p.cost, p.category_id,
	p.discount_type, p.discount_value, p.discount_starts_at, p.discount_ends_at,
	p.active, p.created_at, p.updated_at`

// Create persiste un nuevo producto (incluye los borradores creados en caliente desde el carrito).
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, barcode, price, price2, price3, price4, price5, wholesale, cost, category_id, discount_type, discount_value, discount_starts_at, discount_ends_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	dType, dValue, dStarts, dEnds := discountColumns(product.Discount)
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, nullIfEmpty(product.Barcode),
		product.Price, product.Price2, product.Price3, product.Price4, product.Price5,
		product.Wholesale, product.Cost, nullIfEmpty(product.CategoryID),
		dType, dValue, dStarts, dEnds,
		product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con su categoría resuelta.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `, c.name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `, c.name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.barcode = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by barcode: %w", err)
	}
	return p, nil
}

// ListAll devuelve el catálogo completo con el nombre de categoría resuelto.
// Es UNA sola consulta con JOIN: la vista agregada depende de que el número de
// consultas no crezca con el número de productos.
func (r *ProductRepo) ListAll() ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `, c.name
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update actualiza un producto existente. No toca Cost (lo maneja el motor de compras).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, barcode = $3, price = $4, price2 = $5, price3 = $6,
			price4 = $7, price5 = $8, wholesale = $9, category_id = $10,
			discount_type = $11, discount_value = $12, discount_starts_at = $13, discount_ends_at = $14,
			active = $15, updated_at = $16
		WHERE id = $1`
	dType, dValue, dStarts, dEnds := discountColumns(product.Discount)
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, nullIfEmpty(product.Barcode),
		product.Price, product.Price2, product.Price3, product.Price4, product.Price5,
		product.Wholesale, nullIfEmpty(product.CategoryID),
		dType, dValue, dStarts, dEnds,
		product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo promedio ponderado (motor de compras).
func (r *ProductRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`,
		productID, cost,
	)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	return nil
}

// Delete elimina un producto (soft delete: se marca inactivo).
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanProduct escanea una fila con productColumns + nombre de categoría.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var barcode, categoryID, categoryName, dType *string
	var dValue decimal.NullDecimal
	var dStarts, dEnds *time.Time
	err := row.Scan(
		&p.ID, &p.Name, &barcode, &p.Price, &p.Price2, &p.Price3, &p.Price4, &p.Price5,
		&p.Wholesale, &p.Cost, &categoryID,
		&dType, &dValue, &dStarts, &dEnds,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
		&categoryName,
	)
	if err != nil {
		return nil, err
	}
	p.Barcode = orEmpty(barcode)
	p.CategoryID = orEmpty(categoryID)
	p.CategoryName = orEmpty(categoryName)
	if dType != nil {
		p.Discount = &entity.DiscountRule{
			Type:     *dType,
			Value:    dValue.Decimal,
			StartsAt: dStarts,
			EndsAt:   dEnds,
		}
	}
	return &p, nil
}

// discountColumns descompone la regla de descuento en sus columnas (todas NULL si no hay regla).
func discountColumns(d *entity.DiscountRule) (any, any, any, any) {
	if d == nil {
		return nil, nil, nil, nil
	}
	var starts, ends any
	if d.StartsAt != nil {
		starts = *d.StartsAt
	}
	if d.EndsAt != nil {
		ends = *d.EndsAt
	}
	return d.Type, d.Value, starts, ends
}
