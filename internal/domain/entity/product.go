package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de descuento por producto.
const (
	DiscountPercentage = "PERCENTAGE" // porcentaje sobre el precio base
	DiscountFixed      = "FIXED"      // monto fijo descontado del precio base
)

// Niveles de precio seleccionables por pestaña del carrito.
const (
	PriceTierBase      = "BASE"
	PriceTier2         = "TIER_2"
	PriceTier3         = "TIER_3"
	PriceTier4         = "TIER_4"
	PriceTier5         = "TIER_5"
	PriceTierWholesale = "WHOLESALE"
)

// DiscountRule regla de descuento de un producto, con ventana de vigencia opcional.
// Un descuento sin fechas aplica siempre; con fechas aplica solo si now ∈ [StartsAt, EndsAt].
type DiscountRule struct {
	Type     string          // PERCENTAGE | FIXED
	Value    decimal.Decimal // porcentaje (0-100) o monto fijo según Type
	StartsAt *time.Time
	EndsAt   *time.Time
}

// ActiveAt indica si la regla está vigente en el instante dado.
func (d *DiscountRule) ActiveAt(now time.Time) bool {
	if d == nil || d.Value.IsZero() {
		return false
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}

// Product representa un producto del catálogo (multi-sucursal).
// Cost es el costo promedio ponderado y lo recalcula el motor de compras;
// las cantidades viven en InventoryRecord por ubicación.
type Product struct {
	ID           string
	Name         string
	Barcode      string
	Price        decimal.Decimal // precio base de venta
	Price2       decimal.Decimal // niveles alternos de precio (2-5)
	Price3       decimal.Decimal
	Price4       decimal.Decimal
	Price5       decimal.Decimal
	Wholesale    decimal.Decimal // precio al por mayor
	Cost         decimal.Decimal // costo promedio ponderado
	CategoryID   string
	CategoryName string // denormalizado en lecturas (JOIN con categories)
	Discount     *DiscountRule
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PriceForTier devuelve el precio del nivel indicado; un nivel sin valor cae al precio base.
func (p *Product) PriceForTier(tier string) decimal.Decimal {
	var price decimal.Decimal
	switch tier {
	case PriceTier2:
		price = p.Price2
	case PriceTier3:
		price = p.Price3
	case PriceTier4:
		price = p.Price4
	case PriceTier5:
		price = p.Price5
	case PriceTierWholesale:
		price = p.Wholesale
	default:
		price = p.Price
	}
	if price.IsZero() {
		return p.Price
	}
	return price
}

// FinalPrice aplica la regla de descuento vigente sobre el precio base.
// Sin regla vigente devuelve el precio completo.
func (p *Product) FinalPrice(now time.Time) decimal.Decimal {
	if !p.Discount.ActiveAt(now) {
		return p.Price
	}
	switch p.Discount.Type {
	case DiscountPercentage:
		factor := decimal.NewFromInt(100).Sub(p.Discount.Value).Div(decimal.NewFromInt(100))
		return p.Price.Mul(factor)
	case DiscountFixed:
		final := p.Price.Sub(p.Discount.Value)
		if final.IsNegative() {
			return decimal.Zero
		}
		return final
	}
	return p.Price
}
