package checkout

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// TxRunner ejecuta una función con un repositorio de facturas atado a una
// transacción de BD. Solo el flujo de edición lo usa: el borrado+reinserción
// de líneas y el ajuste de cabecera deben ser atómicos entre sí.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error
	RunPurchases(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error
}
