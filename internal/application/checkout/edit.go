package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// commitEdit reemplaza las líneas de una factura ya confirmada: borra las
// anteriores, inserta el conjunto nuevo y ajusta la cabecera dentro de una
// sola transacción (TxRunner). Después aplica la DIFERENCIA entre el total
// viejo y el nuevo al saldo de la contraparte y a la transacción de caja
// original, e inserta un ADJUSTMENT como rastro de auditoría. Un carrito
// vacío es legítimo: significa "borrar todas las líneas".
func (p *Pipeline) commitEdit(ctx context.Context, tab *entity.CartSession) (*dto.CommitResponse, error) {
	repo := p.repoFor(p.editInvoiceType(tab))
	inv, err := repo.GetByID(tab.EditInvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Type == entity.InvoiceTransfer {
		// Un traslado no lleva montos ni contraparte; editarlo por la ruta
		// monetaria escribiría totales en una cabecera que debe quedar en cero.
		return nil, fmt.Errorf("un traslado no admite edición: %w", domain.ErrInvalidInput)
	}

	items := cloneItems(tab.Items)
	sign := decimal.NewFromInt(1)
	if inv.IsReturn() {
		sign = decimal.NewFromInt(-1)
	}
	net, discount, profit := totals(items)
	newTotal := net.Sub(discount).Add(inv.Tax).Mul(sign)
	oldTotal := inv.Total
	diff := newTotal.Sub(oldTotal)

	replaceLines := func(invoices repository.InvoiceRepository) error {
		if err := invoices.DeleteLines(inv.ID); err != nil {
			return err
		}
		for i := range items {
			line := &entity.InvoiceLine{
				ID:        uuid.New().String(),
				InvoiceID: inv.ID,
				ProductID: items[i].ProductID,
				Quantity:  items[i].Quantity.Mul(sign),
				UnitPrice: items[i].UnitPrice,
				CostPrice: items[i].CostPrice,
				Discount:  items[i].Discount.Mul(sign),
				Total:     items[i].Total().Mul(sign),
			}
			if err := invoices.CreateLine(line); err != nil {
				return err
			}
		}
		return invoices.UpdateTotals(inv.ID,
			net.Mul(sign), discount.Mul(sign), inv.Tax, newTotal, profit.Mul(sign))
	}

	runner := p.txRunner.RunSales
	if inv.Type == entity.InvoicePurchase || inv.Type == entity.InvoicePurchaseReturn {
		runner = p.txRunner.RunPurchases
	}
	if err := runner(ctx, replaceLines); err != nil {
		return nil, &CommitError{Step: "reemplazar_lineas", Err: err}
	}

	var warnings []string
	if !diff.IsZero() {
		// Saldo de la contraparte: modelo almacenado, ajuste explícito por delta.
		if err := p.adjustCounterparty(inv.Counterparty, diff); err != nil {
			p.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("checkout: no se pudo ajustar el saldo tras la edición")
			warnings = append(warnings, fmt.Sprintf("saldo contraparte: %v", err))
		}
		if err := p.amendCash(inv, diff); err != nil {
			p.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("checkout: no se pudo corregir la transacción de caja tras la edición")
			warnings = append(warnings, fmt.Sprintf("transacción de caja: %v", err))
		}
	}

	return &dto.CommitResponse{
		InvoiceID: inv.ID,
		Type:      inv.Type,
		Total:     newTotal,
		Profit:    profit.Mul(sign),
		Warnings:  warnings,
	}, nil
}

// amendCash corrige monto y saldo de la transacción de caja original por la
// diferencia y deja un ADJUSTMENT describiendo el ajuste.
func (p *Pipeline) amendCash(inv *entity.Invoice, diff decimal.Decimal) error {
	cashDiff := diff
	if inv.Type == entity.InvoicePurchase || inv.Type == entity.InvoicePurchaseReturn {
		cashDiff = diff.Neg() // las compras se registran en caja con signo invertido
	}
	txn, err := p.drawers.GetTransactionByInvoice(inv.ID)
	if err != nil {
		return err
	}
	if txn == nil {
		return domain.ErrNotFound
	}
	if err := p.drawers.AmendTransaction(txn.ID, txn.Amount.Add(cashDiff), txn.BalanceAfter.Add(cashDiff)); err != nil {
		return err
	}
	balance, err := p.drawers.AdjustBalance(txn.DrawerID, cashDiff)
	if err != nil {
		return err
	}
	return p.drawers.CreateTransaction(&entity.CashDrawerTransaction{
		ID:           uuid.New().String(),
		DrawerID:     txn.DrawerID,
		InvoiceID:    inv.ID,
		Type:         entity.CashTxnAdjustment,
		Amount:       cashDiff,
		BalanceAfter: balance,
		Note:         fmt.Sprintf("edición de factura %d: total %s → %s", inv.Number, inv.Total.StringFixed(2), inv.Total.Add(diff).StringFixed(2)),
		CreatedAt:    p.now(),
	})
}

// editInvoiceType el tipo se deriva del modo de la pestaña de edición, no se
// vuelve a derivar del flag Return (la factura ya existe con su tipo).
func (p *Pipeline) editInvoiceType(tab *entity.CartSession) string {
	if tab.Mode == entity.ModePurchase {
		if tab.Return {
			return entity.InvoicePurchaseReturn
		}
		return entity.InvoicePurchase
	}
	if tab.Return {
		return entity.InvoiceSaleReturn
	}
	return entity.InvoiceSale
}
