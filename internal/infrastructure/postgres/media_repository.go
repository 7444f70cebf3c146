package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.MediaRepository = (*MediaRepo)(nil)

// MediaRepo lectura de imágenes de productos.
type MediaRepo struct {
	q Querier
}

// NewMediaRepository construye el adaptador de medios. Pasar pool o tx (Querier).
func NewMediaRepository(q Querier) *MediaRepo {
	return &MediaRepo{q: q}
}

// ListByProducts devuelve las imágenes de todos los productos indicados en UNA consulta.
func (r *MediaRepo) ListByProducts(productIDs []string) ([]*entity.ProductImage, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, product_id, url, sort_order
		FROM product_images WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order`
	rows, err := r.q.Query(context.Background(), query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	var images []*entity.ProductImage
	for rows.Next() {
		var img entity.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.SortOrder); err != nil {
			return nil, fmt.Errorf("scan product image: %w", err)
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}
