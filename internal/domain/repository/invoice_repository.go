package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para cabeceras y líneas.
// Hay dos implementaciones: ventas (sales/sale_items) y compras
// (purchase_invoices/purchase_invoice_items); el pipeline elige por modo.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	// Delete elimina la cabecera: acción compensatoria de la saga cuando
	// falla la inserción de líneas (no hay transacción multi-tabla nativa
	// en el flujo original).
	Delete(id string) error
	DeleteLines(invoiceID string) error
	UpdateTotals(invoiceID string, netTotal, discount, tax, total, profit decimal.Decimal) error
	GetByID(id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
}
