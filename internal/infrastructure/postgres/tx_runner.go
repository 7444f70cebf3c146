package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Tienda-api/internal/application/checkout"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// Ensure TxRunner implements checkout.TxRunner.
var _ checkout.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// El flujo de edición lo necesita: borrar líneas, reinsertarlas y ajustar la
// cabecera deben confirmarse juntos o no confirmarse.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSales inicia una transacción y ejecuta fn con el repositorio de ventas atado a la tx.
func (r *TxRunner) RunSales(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewSaleInvoiceRepository(q))
	})
}

// RunPurchases inicia una transacción y ejecuta fn con el repositorio de compras atado a la tx.
func (r *TxRunner) RunPurchases(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewPurchaseInvoiceRepository(q))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
