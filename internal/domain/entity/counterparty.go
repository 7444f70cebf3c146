package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente de ventas. Balance es el saldo acumulado almacenado:
// se ajusta explícitamente al confirmar y al editar facturas (un solo modelo,
// nunca se mezcla con agregados en vivo).
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Supplier proveedor de compras.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerPayment abono de un cliente (tabla customer_payments).
type CustomerPayment struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	Note       string
	CreatedAt  time.Time
}
