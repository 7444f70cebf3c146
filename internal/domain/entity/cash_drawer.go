package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de transacción de caja.
const (
	CashTxnSale       = "SALE"
	CashTxnPurchase   = "PURCHASE"
	CashTxnReturn     = "RETURN"
	CashTxnAdjustment = "ADJUSTMENT" // rastro de auditoría de ediciones de factura
)

// CashDrawer caja registradora con saldo acumulado.
type CashDrawer struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CashDrawerTransaction movimiento de caja ligado a una factura.
// BalanceAfter es el saldo de la caja tras aplicar Amount; en ediciones el
// monto y el saldo se corrigen por la diferencia y se inserta un ADJUSTMENT
// describiendo el ajuste.
type CashDrawerTransaction struct {
	ID           string
	DrawerID     string
	InvoiceID    string
	Type         string // SALE | PURCHASE | RETURN | ADJUSTMENT
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Note         string
	CreatedAt    time.Time
}
