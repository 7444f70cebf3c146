package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.CashDrawerRepository = (*CashDrawerRepo)(nil)

// CashDrawerRepo cajas y sus transacciones sobre PostgreSQL (usable con pool o tx).
type CashDrawerRepo struct {
	q Querier
}

// NewCashDrawerRepository construye el adaptador de cajas. Pasar pool o tx (Querier).
func NewCashDrawerRepository(q Querier) *CashDrawerRepo {
	return &CashDrawerRepo{q: q}
}

// GetByID obtiene una caja por ID.
func (r *CashDrawerRepo) GetByID(id string) (*entity.CashDrawer, error) {
	query := `
		SELECT id, name, balance, active, created_at, updated_at
		FROM cash_drawers WHERE id = $1`
	var d entity.CashDrawer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Name, &d.Balance, &d.Active, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash drawer: %w", err)
	}
	return &d, nil
}

// AdjustBalance suma delta al saldo de la caja y devuelve el saldo resultante
// en la misma sentencia (RETURNING): el llamador lo usa como BalanceAfter.
func (r *CashDrawerRepo) AdjustBalance(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`UPDATE cash_drawers SET balance = balance + $2, updated_at = now() WHERE id = $1 RETURNING balance`,
		id, delta,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("adjust drawer balance: %w", err)
	}
	return balance, nil
}

// CreateTransaction registra un movimiento de caja.
func (r *CashDrawerRepo) CreateTransaction(txn *entity.CashDrawerTransaction) error {
	query := `
		INSERT INTO cash_drawer_transactions (id, drawer_id, invoice_id, type, amount, balance_after, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.DrawerID, nullIfEmpty(txn.InvoiceID), txn.Type,
		txn.Amount, txn.BalanceAfter, txn.Note, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert drawer transaction: %w", err)
	}
	return nil
}

// GetTransactionByInvoice localiza el movimiento original de una factura
// (el más antiguo: las ediciones agregan ADJUSTMENT posteriores).
func (r *CashDrawerRepo) GetTransactionByInvoice(invoiceID string) (*entity.CashDrawerTransaction, error) {
	query := `
		SELECT id, drawer_id, COALESCE(invoice_id, ''), type, amount, balance_after, COALESCE(note, ''), created_at
		FROM cash_drawer_transactions
		WHERE invoice_id = $1 AND type <> 'ADJUSTMENT'
		ORDER BY created_at LIMIT 1`
	var txn entity.CashDrawerTransaction
	err := r.q.QueryRow(context.Background(), query, invoiceID).Scan(
		&txn.ID, &txn.DrawerID, &txn.InvoiceID, &txn.Type,
		&txn.Amount, &txn.BalanceAfter, &txn.Note, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get drawer transaction: %w", err)
	}
	return &txn, nil
}

// AmendTransaction corrige monto y saldo de un movimiento existente.
func (r *CashDrawerRepo) AmendTransaction(id string, amount, balanceAfter decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE cash_drawer_transactions SET amount = $2, balance_after = $3 WHERE id = $1`,
		id, amount, balanceAfter,
	)
	if err != nil {
		return fmt.Errorf("amend drawer transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
