package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*PurchaseInvoiceRepo)(nil)

// PurchaseInvoiceRepo facturas de compra y devoluciones de compra
// (tablas purchase_invoices y purchase_invoice_items).
type PurchaseInvoiceRepo struct {
	q Querier
}

// NewPurchaseInvoiceRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseInvoiceRepository(q Querier) *PurchaseInvoiceRepo {
	return &PurchaseInvoiceRepo{q: q}
}

// Create inserta la cabecera; el consecutivo lo asigna purchase_number_seq.
func (r *PurchaseInvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO purchase_invoices (id, type, number, supplier_id, location_kind, location_id,
			cash_drawer_id, net_total, discount, tax, total, profit, date, created_by, created_at, updated_at)
		VALUES ($1, $2, nextval('purchase_number_seq'), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING number`
	err := r.q.QueryRow(context.Background(), query,
		invoice.ID, invoice.Type,
		nullIfEmpty(invoice.Counterparty.ID),
		nullIfEmpty(invoice.Location.Kind), nullIfEmpty(invoice.Location.ID),
		nullIfEmpty(invoice.CashDrawerID),
		invoice.NetTotal, invoice.Discount, invoice.Tax, invoice.Total, invoice.Profit,
		invoice.Date, nullIfEmpty(invoice.CreatedBy), invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&invoice.Number)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de la factura.
func (r *PurchaseInvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	query := `
		INSERT INTO purchase_invoice_items (id, purchase_id, product_id, quantity, unit_price, cost_price, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.ProductID,
		line.Quantity, line.UnitPrice, line.CostPrice, line.Discount, line.Total,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// Delete elimina la cabecera (compensación cuando fallan las líneas).
func (r *PurchaseInvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

// DeleteLines elimina todas las líneas de la factura.
func (r *PurchaseInvoiceRepo) DeleteLines(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_invoice_items WHERE purchase_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return nil
}

// UpdateTotals ajusta los montos de la cabecera (flujo de edición).
func (r *PurchaseInvoiceRepo) UpdateTotals(invoiceID string, netTotal, discount, tax, total, profit decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE purchase_invoices SET net_total = $2, discount = $3, tax = $4, total = $5, profit = $6, updated_at = now()
		WHERE id = $1`,
		invoiceID, netTotal, discount, tax, total, profit,
	)
	if err != nil {
		return fmt.Errorf("update purchase totals: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID.
func (r *PurchaseInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, type, number, supplier_id, location_kind, location_id,
			cash_drawer_id, net_total, discount, tax, total, profit, date, created_by, created_at, updated_at
		FROM purchase_invoices WHERE id = $1`
	var inv entity.Invoice
	var supplierID, locKind, locID, drawerID, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Type, &inv.Number, &supplierID, &locKind, &locID, &drawerID,
		&inv.NetTotal, &inv.Discount, &inv.Tax, &inv.Total, &inv.Profit,
		&inv.Date, &createdBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if supplierID != nil {
		inv.Counterparty = entity.CounterpartyRef{Kind: entity.CounterpartySupplier, ID: *supplierID}
	}
	inv.Location = entity.LocationRef{Kind: orEmpty(locKind), ID: orEmpty(locID)}
	inv.CashDrawerID = orEmpty(drawerID)
	inv.CreatedBy = orEmpty(createdBy)
	return &inv, nil
}

// GetLines devuelve las líneas de la factura.
func (r *PurchaseInvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_price, cost_price, discount, total
		FROM purchase_invoice_items WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}
	defer rows.Close()

	var lines []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.CostPrice, &l.Discount, &l.Total); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
