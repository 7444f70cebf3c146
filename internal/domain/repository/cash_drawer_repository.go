package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// CashDrawerRepository define el puerto para cajas y sus transacciones.
type CashDrawerRepository interface {
	GetByID(id string) (*entity.CashDrawer, error)
	// AdjustBalance suma delta al saldo de la caja y devuelve el saldo resultante.
	AdjustBalance(id string, delta decimal.Decimal) (decimal.Decimal, error)
	CreateTransaction(txn *entity.CashDrawerTransaction) error
	// GetTransactionByInvoice localiza la transacción original de una factura
	// (el flujo de edición corrige su monto y saldo por la diferencia).
	GetTransactionByInvoice(invoiceID string) (*entity.CashDrawerTransaction, error)
	// AmendTransaction corrige monto y saldo de una transacción existente.
	AmendTransaction(id string, amount, balanceAfter decimal.Decimal) error
}
