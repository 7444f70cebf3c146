package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// NewTabRequest body para crear una pestaña del carrito.
type NewTabRequest struct {
	Title string `json:"title"`
	Mode  string `json:"mode"` // SALE | PURCHASE | TRANSFER (vacío = SALE)
}

// AddItemRequest body para agregar una línea a la pestaña activa.
// UnitPrice opcional: si viene, es un override manual; si no, se resuelve por
// modo (costo en compras, nivel de precio seleccionado en ventas).
type AddItemRequest struct {
	ProductID    string                     `json:"product_id"`
	Quantity     decimal.Decimal            `json:"quantity"`
	UnitPrice    *decimal.Decimal           `json:"unit_price,omitempty"`
	Discount     decimal.Decimal            `json:"discount"`
	VariantSplit map[string]decimal.Decimal `json:"variant_split,omitempty"`
}

// AddDraftItemRequest body para agregar un producto aún no existente en el
// catálogo. La línea viaja como borrador y el commit lo persiste.
type AddDraftItemRequest struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// SetContextRequest body para fijar las selecciones de contexto de la pestaña activa.
type SetContextRequest struct {
	Counterparty *entity.CounterpartyRef `json:"counterparty,omitempty"`
	Location     *entity.LocationRef     `json:"location,omitempty"`
	FromLocation *entity.LocationRef     `json:"from_location,omitempty"`
	ToLocation   *entity.LocationRef     `json:"to_location,omitempty"`
	CashDrawerID *string                 `json:"cash_drawer_id,omitempty"`
	PriceTier    *string                 `json:"price_tier,omitempty"`
}

// SetModeRequest body para cambiar modo/flag de devolución de la pestaña activa.
type SetModeRequest struct {
	Mode   *string `json:"mode,omitempty"`
	Return *bool   `json:"return,omitempty"`
}

// TabsResponse estado del administrador de pestañas.
type TabsResponse struct {
	ActiveTabID string                `json:"active_tab_id"`
	Tabs        []*entity.CartSession `json:"tabs"`
	Postponed   []*entity.CartSession `json:"postponed"`
}
