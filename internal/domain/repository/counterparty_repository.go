package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// El saldo es almacenado y se muta explícitamente por delta (modelo único).
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
	AdjustBalance(id string, delta decimal.Decimal) error
	CreatePayment(payment *entity.CustomerPayment) error
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	GetByID(id string) (*entity.Supplier, error)
	AdjustBalance(id string, delta decimal.Decimal) error
}
