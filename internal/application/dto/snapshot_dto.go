package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// VariantStockDTO cantidad de una variante en una sucursal.
// Unassigned marca el remanente derivado (no existe como fila en la DB).
type VariantStockDTO struct {
	DefinitionID string          `json:"definition_id,omitempty"`
	Kind         string          `json:"kind,omitempty"`
	Name         string          `json:"name"`
	ColorCode    string          `json:"color_code,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unassigned   bool            `json:"unassigned,omitempty"`
}

// LocationStockDTO desglose por ubicación: cantidad, mínimo, estado de
// auditoría y variantes (solo sucursales).
type LocationStockDTO struct {
	Location     entity.LocationRef `json:"location"`
	LocationName string             `json:"location_name"`
	Quantity     decimal.Decimal    `json:"quantity"`
	MinStock     decimal.Decimal    `json:"min_stock"`
	AuditStatus  string             `json:"audit_status"`
	Variants     []VariantStockDTO  `json:"variants,omitempty"`
}

// ProductSnapshot vista denormalizada de un producto: totales, desglose por
// ubicación, imágenes únicas y precio final con descuento vigente.
type ProductSnapshot struct {
	ID            string                      `json:"id"`
	Name          string                      `json:"name"`
	Barcode       string                      `json:"barcode,omitempty"`
	CategoryID    string                      `json:"category_id,omitempty"`
	CategoryName  string                      `json:"category_name,omitempty"`
	Price         decimal.Decimal             `json:"price"`
	FinalPrice    decimal.Decimal             `json:"final_price"`
	Cost          decimal.Decimal             `json:"cost"`
	Active        bool                        `json:"active"`
	TotalQuantity decimal.Decimal             `json:"total_quantity"`
	Locations     map[string]LocationStockDTO `json:"locations"` // clave = kind:id
	Images        []string                    `json:"images,omitempty"`
}
