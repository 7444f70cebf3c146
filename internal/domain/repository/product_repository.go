package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	// ListAll devuelve el catálogo completo con el nombre de categoría resuelto
	// (una sola consulta con JOIN; el snapshot depende de que sea UNA).
	ListAll() ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateCost actualiza solo el costo promedio ponderado (motor de compras).
	UpdateCost(productID string, cost decimal.Decimal) error
	Delete(id string) error
}

// MediaRepository define el puerto de lectura de imágenes de productos.
type MediaRepository interface {
	// ListByProducts devuelve las imágenes de todos los productos indicados en una consulta.
	ListByProducts(productIDs []string) ([]*entity.ProductImage, error)
}
