package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura derivados del modo de la pestaña.
// Las devoluciones llevan cantidades y totales negados respecto a la operación equivalente.
const (
	InvoiceSale           = "SALE"
	InvoiceSaleReturn     = "SALE_RETURN"
	InvoicePurchase       = "PURCHASE"
	InvoicePurchaseReturn = "PURCHASE_RETURN"
	InvoiceTransfer       = "TRANSFER"
)

// Invoice cabecera de factura (venta, compra o traslado).
// Invariante para tipos no-devolución: Total == Σ(qty×unit_price) − descuentos + impuesto.
// Inmutable una vez confirmada salvo por el flujo de edición, que borra y
// reinserta líneas y ajusta el total.
type Invoice struct {
	ID           string
	Type         string // SALE | SALE_RETURN | PURCHASE | PURCHASE_RETURN | TRANSFER
	Number       int64  // consecutivo visible
	Counterparty CounterpartyRef
	Location     LocationRef
	FromLocation LocationRef // solo TRANSFER
	ToLocation   LocationRef // solo TRANSFER
	CashDrawerID string
	NetTotal     decimal.Decimal
	Discount     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Profit       decimal.Decimal // Σ((unit_price − cost) × qty), negado en devoluciones
	Date         time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsReturn indica si la factura es una devolución.
func (i *Invoice) IsReturn() bool {
	return i.Type == InvoiceSaleReturn || i.Type == InvoicePurchaseReturn
}

// InvoiceLine línea de factura. Quantity va con signo (negativa en devoluciones);
// CostPrice es el costo del producto al momento de la operación, para margen.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	CostPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}
