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

var _ repository.InvoiceRepository = (*SaleInvoiceRepo)(nil)

// SaleInvoiceRepo facturas de venta, devoluciones de venta y traslados
// (tablas sales y sale_items). Los traslados se guardan aquí con montos en
// cero y el par origen→destino en sus columnas propias.
type SaleInvoiceRepo struct {
	q Querier
}

// NewSaleInvoiceRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleInvoiceRepository(q Querier) *SaleInvoiceRepo {
	return &SaleInvoiceRepo{q: q}
}

// Create inserta la cabecera. El consecutivo visible lo asigna la secuencia
// de la BD (sales_number_seq) y se devuelve en invoice.Number.
func (r *SaleInvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO sales (id, type, number, customer_id, branch_id, from_kind, from_id, to_kind, to_id,
			cash_drawer_id, net_total, discount, tax, total, profit, date, created_by, created_at, updated_at)
		VALUES ($1, $2, nextval('sales_number_seq'), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING number`
	err := r.q.QueryRow(context.Background(), query,
		invoice.ID, invoice.Type,
		nullIfEmpty(invoice.Counterparty.ID), nullIfEmpty(invoice.Location.ID),
		nullIfEmpty(invoice.FromLocation.Kind), nullIfEmpty(invoice.FromLocation.ID),
		nullIfEmpty(invoice.ToLocation.Kind), nullIfEmpty(invoice.ToLocation.ID),
		nullIfEmpty(invoice.CashDrawerID),
		invoice.NetTotal, invoice.Discount, invoice.Tax, invoice.Total, invoice.Profit,
		invoice.Date, nullIfEmpty(invoice.CreatedBy), invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&invoice.Number)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de la factura.
func (r *SaleInvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, cost_price, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.ProductID,
		line.Quantity, line.UnitPrice, line.CostPrice, line.Discount, line.Total,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// Delete elimina la cabecera (compensación cuando fallan las líneas).
func (r *SaleInvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return nil
}

// DeleteLines elimina todas las líneas de la factura.
func (r *SaleInvoiceRepo) DeleteLines(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sale_items WHERE sale_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return nil
}

// UpdateTotals ajusta los montos de la cabecera (flujo de edición).
func (r *SaleInvoiceRepo) UpdateTotals(invoiceID string, netTotal, discount, tax, total, profit decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE sales SET net_total = $2, discount = $3, tax = $4, total = $5, profit = $6, updated_at = now()
		WHERE id = $1`,
		invoiceID, netTotal, discount, tax, total, profit,
	)
	if err != nil {
		return fmt.Errorf("update sale totals: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID.
func (r *SaleInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, type, number, customer_id, branch_id, from_kind, from_id, to_kind, to_id,
			cash_drawer_id, net_total, discount, tax, total, profit, date, created_by, created_at, updated_at
		FROM sales WHERE id = $1`
	var inv entity.Invoice
	var customerID, branchID, fromKind, fromID, toKind, toID, drawerID, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Type, &inv.Number, &customerID, &branchID,
		&fromKind, &fromID, &toKind, &toID, &drawerID,
		&inv.NetTotal, &inv.Discount, &inv.Tax, &inv.Total, &inv.Profit,
		&inv.Date, &createdBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if customerID != nil {
		inv.Counterparty = entity.CounterpartyRef{Kind: entity.CounterpartyCustomer, ID: *customerID}
	}
	if branchID != nil {
		inv.Location = entity.LocationRef{Kind: entity.LocationBranch, ID: *branchID}
	}
	inv.FromLocation = entity.LocationRef{Kind: orEmpty(fromKind), ID: orEmpty(fromID)}
	inv.ToLocation = entity.LocationRef{Kind: orEmpty(toKind), ID: orEmpty(toID)}
	inv.CashDrawerID = orEmpty(drawerID)
	inv.CreatedBy = orEmpty(createdBy)
	return &inv, nil
}

// GetLines devuelve las líneas de la factura.
func (r *SaleInvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, cost_price, discount, total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()

	var lines []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.CostPrice, &l.Discount, &l.Total); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
