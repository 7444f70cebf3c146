package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountRuleDTO regla de descuento en el body de producto.
type DiscountRuleDTO struct {
	Type     string          `json:"type"` // PERCENTAGE | FIXED
	Value    decimal.Decimal `json:"value"`
	StartsAt *time.Time      `json:"starts_at,omitempty"`
	EndsAt   *time.Time      `json:"ends_at,omitempty"`
}

// ProductRequest body para crear o actualizar un producto del catálogo.
// En actualización los campos reemplazan los actuales; Cost solo se toma en la
// creación (después lo recalcula el motor de compras).
type ProductRequest struct {
	Name       string           `json:"name"`
	Barcode    string           `json:"barcode,omitempty"`
	Price      decimal.Decimal  `json:"price"`
	Price2     decimal.Decimal  `json:"price2"`
	Price3     decimal.Decimal  `json:"price3"`
	Price4     decimal.Decimal  `json:"price4"`
	Price5     decimal.Decimal  `json:"price5"`
	Wholesale  decimal.Decimal  `json:"wholesale"`
	Cost       decimal.Decimal  `json:"cost"`
	CategoryID string           `json:"category_id,omitempty"`
	Discount   *DiscountRuleDTO `json:"discount,omitempty"`
	Active     *bool            `json:"active,omitempty"`
}

// CustomerPaymentRequest body para registrar el abono de un cliente.
type CustomerPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}
