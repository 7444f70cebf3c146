package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos base de una pestaña del carrito. Return NO es un modo aparte:
// es un flag ortogonal a Sale/Purchase (devolución de venta o de compra).
// Edit tampoco: una pestaña queda ligada a una factura vía EditInvoiceID.
const (
	ModeSale     = "SALE"
	ModePurchase = "PURCHASE"
	ModeTransfer = "TRANSFER"
)

// Clases de contraparte de una transacción.
const (
	CounterpartyCustomer = "CUSTOMER"
	CounterpartySupplier = "SUPPLIER"
)

// CounterpartyRef referencia tipada a cliente o proveedor.
type CounterpartyRef struct {
	Kind string `json:"kind"` // CUSTOMER | SUPPLIER
	ID   string `json:"id"`
}

// IsZero indica si la referencia está sin asignar.
func (r CounterpartyRef) IsZero() bool { return r.ID == "" }

// CartItem línea del carrito. Total = UnitPrice × Quantity − Discount.
// VariantSplit reparte la cantidad entre variantes (clave = definition id);
// puede cubrir menos que Quantity, el resto va al bucket sin especificar.
type CartItem struct {
	ID           string                     `json:"id"`
	ProductID    string                     `json:"product_id"`
	ProductName  string                     `json:"product_name"`
	Draft        bool                       `json:"draft"` // producto aún no persistido en catálogo
	Quantity     decimal.Decimal            `json:"quantity"`
	UnitPrice    decimal.Decimal            `json:"unit_price"`
	CostPrice    decimal.Decimal            `json:"cost_price"` // costo al momento de agregar (margen)
	Discount     decimal.Decimal            `json:"discount"`   // descuento de línea, monto
	VariantSplit map[string]decimal.Decimal `json:"variant_split,omitempty"`
}

// Total de la línea.
func (i *CartItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(i.Quantity).Sub(i.Discount)
}

// CartContext selecciones de contexto de una pestaña: contraparte, ubicación
// (o par origen→destino en traslados), caja y nivel de precio.
type CartContext struct {
	Counterparty CounterpartyRef `json:"counterparty"`
	Location     LocationRef     `json:"location"`
	FromLocation LocationRef     `json:"from_location"` // solo Transfer
	ToLocation   LocationRef     `json:"to_location"`   // solo Transfer
	CashDrawerID string          `json:"cash_drawer_id"`
	PriceTier    string          `json:"price_tier"` // BASE | TIER_2..TIER_5 | WHOLESALE
}

// CartSession una pestaña independiente del carrito, con su propio modo,
// líneas y contexto. Las mutaciones se expresan como "reemplazar el registro
// de la pestaña" (ver cart.Manager); la entidad en sí no sincroniza nada.
type CartSession struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Mode          string      `json:"mode"`      // SALE | PURCHASE | TRANSFER
	Return        bool        `json:"return"`    // devolución (combinable con SALE o PURCHASE)
	EditInvoiceID string      `json:"edit_invoice_id,omitempty"` // pestaña ligada a edición de factura
	Items         []CartItem  `json:"items"`
	Context       CartContext `json:"context"`
	Postponed     bool        `json:"postponed"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// IsEdit indica si la pestaña está ligada a la edición de una factura existente.
func (s *CartSession) IsEdit() bool { return s.EditInvoiceID != "" }

// Total suma de los totales de línea.
func (s *CartSession) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Items {
		total = total.Add(s.Items[i].Total())
	}
	return total
}

// Clone copia profunda de la sesión (los mapas de variantes se copian).
func (s *CartSession) Clone() *CartSession {
	out := *s
	out.Items = make([]CartItem, len(s.Items))
	for i := range s.Items {
		out.Items[i] = s.Items[i]
		if s.Items[i].VariantSplit != nil {
			split := make(map[string]decimal.Decimal, len(s.Items[i].VariantSplit))
			for k, v := range s.Items[i].VariantSplit {
				split[k] = v
			}
			out.Items[i].VariantSplit = split
		}
	}
	return &out
}
