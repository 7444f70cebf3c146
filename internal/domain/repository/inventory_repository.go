package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// InventoryRepository define el puerto para los registros producto+ubicación.
type InventoryRepository interface {
	Get(productID string, loc entity.LocationRef) (*entity.InventoryRecord, error)
	// ListByProducts devuelve todas las filas de inventario de los productos
	// indicados en UNA consulta (el snapshot arma los índices en memoria).
	ListByProducts(productIDs []string) ([]*entity.InventoryRecord, error)
	// ApplyDelta aplica un delta con signo de forma atómica en el storage,
	// acotando la cantidad a cero (GREATEST(0, quantity + delta)). Con delta
	// negativo y fila inexistente NO crea la fila (evita insertar ceros en
	// devoluciones); con delta positivo la crea si falta.
	ApplyDelta(productID string, loc entity.LocationRef, delta decimal.Decimal) error
	// TotalOnHand suma la existencia del producto en todas las ubicaciones.
	TotalOnHand(productID string) (decimal.Decimal, error)
	UpdateAuditStatus(productID string, loc entity.LocationRef, status string) error
	UpdateMinStock(productID string, loc entity.LocationRef, min decimal.Decimal) error
	SetQuantity(productID string, loc entity.LocationRef, qty decimal.Decimal) error
}

// VariantRepository define el puerto para definiciones y cantidades de variantes.
type VariantRepository interface {
	// ListDefinitionsByProducts definiciones de todos los productos en una consulta.
	ListDefinitionsByProducts(productIDs []string) ([]*entity.VariantDefinition, error)
	// ListQuantitiesByDefinitions cantidades de todas las definiciones en una consulta.
	ListQuantitiesByDefinitions(definitionIDs []string) ([]*entity.VariantQuantity, error)
	// GetOrCreateUnspecified devuelve la definición reservada del bucket sin
	// especificar del producto, creándola de forma diferida si no existe.
	GetOrCreateUnspecified(productID string) (*entity.VariantDefinition, error)
	// ApplyQuantityDelta aplica un delta con signo a la cantidad de una variante
	// en una sucursal, acotando a cero, con upsert atómico.
	ApplyQuantityDelta(definitionID, branchID string, delta decimal.Decimal) error
}
