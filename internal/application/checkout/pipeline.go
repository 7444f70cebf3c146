package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/costing"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// Pipeline confirma una pestaña del carrito: escribe cabecera y líneas de
// factura y reconcilia inventario, cantidades por variante y costo promedio.
// Garantía (mejor esfuerzo, no atómica): cabecera+líneas son consistentes
// entre sí (compensadas ante fallo); la reconciliación posterior es best-effort
// y puede desfasarse de la factura si un paso tardío falla.
type Pipeline struct {
	sales     repository.InvoiceRepository
	purchases repository.InvoiceRepository
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	variants  repository.VariantRepository
	customers repository.CustomerRepository
	suppliers repository.SupplierRepository
	drawers   repository.CashDrawerRepository
	txRunner  TxRunner
	log       *logger.Logger
	now       func() time.Time
}

// NewPipeline construye el pipeline de commit.
func NewPipeline(
	sales, purchases repository.InvoiceRepository,
	products repository.ProductRepository,
	inventory repository.InventoryRepository,
	variants repository.VariantRepository,
	customers repository.CustomerRepository,
	suppliers repository.SupplierRepository,
	drawers repository.CashDrawerRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		sales:     sales,
		purchases: purchases,
		products:  products,
		inventory: inventory,
		variants:  variants,
		customers: customers,
		suppliers: suppliers,
		drawers:   drawers,
		txRunner:  txRunner,
		log:       log,
		now:       time.Now,
	}
}

// Commit valida y ejecuta la secuencia de escritura según el modo de la
// pestaña. Los errores de validación salen antes de cualquier escritura.
func (p *Pipeline) Commit(ctx context.Context, tab *entity.CartSession, userID string) (*dto.CommitResponse, error) {
	if err := p.validate(tab); err != nil {
		return nil, err
	}
	if tab.IsEdit() {
		return p.commitEdit(ctx, tab)
	}
	if tab.Mode == entity.ModeTransfer {
		return p.commitTransfer(ctx, tab, userID)
	}
	return p.commitTrade(ctx, tab, userID)
}

// validate aplica las precondiciones por modo. El carrito debe tener líneas,
// salvo en edición (vaciar el carrito de una edición = borrar todas las líneas).
func (p *Pipeline) validate(tab *entity.CartSession) error {
	if tab.IsEdit() {
		return nil // la factura ya pasó validación al crearse
	}
	if len(tab.Items) == 0 {
		return domain.ErrEmptyCart
	}
	c := tab.Context
	switch tab.Mode {
	case entity.ModeSale:
		if c.Counterparty.IsZero() || c.Location.IsZero() || c.CashDrawerID == "" {
			return domain.ErrMissingContext
		}
	case entity.ModePurchase:
		if c.Counterparty.IsZero() || c.Counterparty.Kind != entity.CounterpartySupplier ||
			c.Location.IsZero() || c.CashDrawerID == "" {
			return domain.ErrMissingContext
		}
	case entity.ModeTransfer:
		if c.FromLocation.IsZero() || c.ToLocation.IsZero() || c.CashDrawerID == "" {
			return domain.ErrMissingContext
		}
	default:
		return domain.ErrInvalidInput
	}
	return p.validateContextRefs(tab)
}

// validateContextRefs comprueba que las referencias del contexto existan antes
// de escribir nada: caja y contraparte según el modo.
func (p *Pipeline) validateContextRefs(tab *entity.CartSession) error {
	c := tab.Context
	drawer, err := p.drawers.GetByID(c.CashDrawerID)
	if err != nil {
		return err
	}
	if drawer == nil {
		return fmt.Errorf("caja %s: %w", c.CashDrawerID, domain.ErrNotFound)
	}
	if tab.Mode == entity.ModeTransfer {
		return nil
	}
	if c.Counterparty.Kind == entity.CounterpartySupplier {
		supplier, err := p.suppliers.GetByID(c.Counterparty.ID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("proveedor %s: %w", c.Counterparty.ID, domain.ErrNotFound)
		}
		return nil
	}
	customer, err := p.customers.GetByID(c.Counterparty.ID)
	if err != nil {
		return err
	}
	if customer == nil {
		return fmt.Errorf("cliente %s: %w", c.Counterparty.ID, domain.ErrNotFound)
	}
	return nil
}

// commitTrade ruta Venta/Compra (con o sin devolución), formalizada como saga.
func (p *Pipeline) commitTrade(ctx context.Context, tab *entity.CartSession, userID string) (*dto.CommitResponse, error) {
	items := cloneItems(tab.Items)
	invoiceType := deriveInvoiceType(tab)
	repo := p.repoFor(invoiceType)
	sign := decimal.NewFromInt(1)
	if tab.Return {
		sign = decimal.NewFromInt(-1)
	}

	now := p.now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		Type:         invoiceType,
		Counterparty: tab.Context.Counterparty,
		Location:     tab.Context.Location,
		CashDrawerID: tab.Context.CashDrawerID,
		Date:         now,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Existencia total previa por producto, para el costo promedio de compras
	// (debe leerse ANTES de aplicar los deltas de inventario).
	preQty := make(map[string]decimal.Decimal)
	if invoiceType == entity.InvoicePurchase {
		for _, item := range items {
			if _, ok := preQty[item.ProductID]; ok {
				continue
			}
			qty, err := p.inventory.TotalOnHand(item.ProductID)
			if err != nil {
				p.log.Warn().Err(err).Str("product_id", item.ProductID).Msg("checkout: existencia previa no disponible, costo parte de cero")
				qty = decimal.Zero
			}
			preQty[item.ProductID] = qty
		}
	}

	steps := []sagaStep{
		{
			name: "resolver_borradores",
			run:  func() error { return p.resolveDrafts(items) },
		},
		{
			name: "insertar_cabecera",
			run: func() error {
				net, discount, profit := totals(items)
				inv.NetTotal = net.Mul(sign)
				inv.Discount = discount.Mul(sign)
				inv.Tax = decimal.Zero
				inv.Total = net.Sub(discount).Add(inv.Tax).Mul(sign)
				inv.Profit = profit.Mul(sign)
				return repo.Create(inv)
			},
			compensate: func() error { return repo.Delete(inv.ID) },
		},
		{
			name: "insertar_lineas",
			run: func() error {
				for i := range items {
					item := &items[i]
					line := &entity.InvoiceLine{
						ID:        uuid.New().String(),
						InvoiceID: inv.ID,
						ProductID: item.ProductID,
						Quantity:  item.Quantity.Mul(sign),
						UnitPrice: item.UnitPrice,
						CostPrice: item.CostPrice,
						Discount:  item.Discount.Mul(sign),
						Total:     item.Total().Mul(sign),
					}
					if err := repo.CreateLine(line); err != nil {
						return err
					}
				}
				return nil
			},
			compensate: func() error { return repo.DeleteLines(inv.ID) },
		},
		{
			name:     "registrar_caja",
			run:      func() error { return p.recordCash(inv) },
			nonFatal: true,
		},
		{
			name:     "ajustar_saldo_contraparte",
			run:      func() error { return p.adjustCounterparty(inv.Counterparty, inv.Total) },
			nonFatal: true,
		},
	}

	// Reconciliación por línea: inventario, bucket de variantes y costo.
	// Las closures leen items[i] al ejecutarse: resolver_borradores puede
	// haber reescrito el product id de la línea.
	for i := range items {
		i := i
		delta := stockDelta(invoiceType, items[i].Quantity)
		steps = append(steps, sagaStep{
			name:     fmt.Sprintf("reconciliar_inventario[%d]", i),
			nonFatal: true,
			run: func() error {
				return p.inventory.ApplyDelta(items[i].ProductID, tab.Context.Location, delta)
			},
		})
		if tab.Context.Location.IsBranch() {
			steps = append(steps, sagaStep{
				name:     fmt.Sprintf("reconciliar_variantes[%d]", i),
				nonFatal: true,
				run: func() error {
					return p.applyVariantDeltas(items[i], tab.Context.Location.ID, delta)
				},
			})
		}
		if invoiceType == entity.InvoicePurchase {
			steps = append(steps, sagaStep{
				name:     fmt.Sprintf("recalcular_costo[%d]", i),
				nonFatal: true,
				run: func() error {
					return p.updateCost(items[i], preQty[items[i].ProductID])
				},
			})
		}
	}

	warnings, err := (&saga{steps: steps, log: p.log}).execute()
	if err != nil {
		return nil, err
	}
	return &dto.CommitResponse{
		InvoiceID: inv.ID,
		Type:      inv.Type,
		Total:     inv.Total,
		Profit:    inv.Profit,
		Warnings:  warnings,
	}, nil
}

// commitTransfer solo movimiento de stock: resta en origen y suma en destino.
// No se toca caja, saldos ni costo; la cabecera queda con montos en cero.
func (p *Pipeline) commitTransfer(ctx context.Context, tab *entity.CartSession, userID string) (*dto.CommitResponse, error) {
	items := cloneItems(tab.Items)
	now := p.now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		Type:         entity.InvoiceTransfer,
		FromLocation: tab.Context.FromLocation,
		ToLocation:   tab.Context.ToLocation,
		CashDrawerID: tab.Context.CashDrawerID,
		Date:         now,
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	steps := []sagaStep{
		{
			name: "resolver_borradores",
			run:  func() error { return p.resolveDrafts(items) },
		},
		{
			name:       "insertar_cabecera",
			run:        func() error { return p.sales.Create(inv) },
			compensate: func() error { return p.sales.Delete(inv.ID) },
		},
		{
			name: "insertar_lineas",
			run: func() error {
				for i := range items {
					line := &entity.InvoiceLine{
						ID:        uuid.New().String(),
						InvoiceID: inv.ID,
						ProductID: items[i].ProductID,
						Quantity:  items[i].Quantity,
					}
					if err := p.sales.CreateLine(line); err != nil {
						return err
					}
				}
				return nil
			},
			compensate: func() error { return p.sales.DeleteLines(inv.ID) },
		},
	}

	for i := range items {
		i := i
		steps = append(steps,
			sagaStep{
				name:     fmt.Sprintf("descontar_origen[%d]", i),
				nonFatal: true,
				run: func() error {
					return p.inventory.ApplyDelta(items[i].ProductID, tab.Context.FromLocation, items[i].Quantity.Neg())
				},
			},
			sagaStep{
				name:     fmt.Sprintf("sumar_destino[%d]", i),
				nonFatal: true,
				run: func() error {
					return p.inventory.ApplyDelta(items[i].ProductID, tab.Context.ToLocation, items[i].Quantity)
				},
			},
		)
	}

	warnings, err := (&saga{steps: steps, log: p.log}).execute()
	if err != nil {
		return nil, err
	}
	return &dto.CommitResponse{
		InvoiceID: inv.ID,
		Type:      inv.Type,
		Total:     decimal.Zero,
		Warnings:  warnings,
	}, nil
}

// resolveDrafts inserta en el catálogo los productos borrador referenciados
// por el carrito y reescribe las líneas al id persistido.
func (p *Pipeline) resolveDrafts(items []entity.CartItem) error {
	now := p.now()
	for i := range items {
		if !items[i].Draft {
			continue
		}
		product := &entity.Product{
			ID:        uuid.New().String(),
			Name:      items[i].ProductName,
			Price:     items[i].UnitPrice,
			Cost:      items[i].CostPrice,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := p.products.Create(product); err != nil {
			return fmt.Errorf("persistir producto borrador %q: %w", items[i].ProductName, err)
		}
		items[i].ProductID = product.ID
		items[i].Draft = false
	}
	return nil
}

// recordCash inserta la transacción de caja de la factura y ajusta el saldo.
// Ventas suman a la caja; compras restan (las devoluciones ya llevan el signo
// en el total).
func (p *Pipeline) recordCash(inv *entity.Invoice) error {
	amount := inv.Total
	txnType := entity.CashTxnSale
	switch inv.Type {
	case entity.InvoicePurchase:
		amount = inv.Total.Neg()
		txnType = entity.CashTxnPurchase
	case entity.InvoicePurchaseReturn:
		amount = inv.Total.Neg()
		txnType = entity.CashTxnReturn
	case entity.InvoiceSaleReturn:
		txnType = entity.CashTxnReturn
	}
	balance, err := p.drawers.AdjustBalance(inv.CashDrawerID, amount)
	if err != nil {
		return err
	}
	return p.drawers.CreateTransaction(&entity.CashDrawerTransaction{
		ID:           uuid.New().String(),
		DrawerID:     inv.CashDrawerID,
		InvoiceID:    inv.ID,
		Type:         txnType,
		Amount:       amount,
		BalanceAfter: balance,
		CreatedAt:    p.now(),
	})
}

func (p *Pipeline) adjustCounterparty(ref entity.CounterpartyRef, delta decimal.Decimal) error {
	if ref.Kind == entity.CounterpartySupplier {
		return p.suppliers.AdjustBalance(ref.ID, delta)
	}
	return p.customers.AdjustBalance(ref.ID, delta)
}

// applyVariantDeltas reparte el delta de una línea entre sus variantes: las
// cantidades del split van a sus definiciones y el remanente al bucket
// "sin especificar" (creado de forma diferida si no existe).
func (p *Pipeline) applyVariantDeltas(item entity.CartItem, branchID string, delta decimal.Decimal) error {
	remainder := delta
	if len(item.VariantSplit) > 0 {
		unit := decimal.NewFromInt(1)
		if delta.IsNegative() {
			unit = decimal.NewFromInt(-1)
		}
		for defID, qty := range item.VariantSplit {
			signed := qty.Mul(unit)
			if err := p.variants.ApplyQuantityDelta(defID, branchID, signed); err != nil {
				return err
			}
			remainder = remainder.Sub(signed)
		}
	}
	if remainder.IsZero() {
		return nil
	}
	def, err := p.variants.GetOrCreateUnspecified(item.ProductID)
	if err != nil {
		return err
	}
	return p.variants.ApplyQuantityDelta(def.ID, branchID, remainder)
}

// updateCost recalcula el costo promedio ponderado tras una compra y lo
// persiste en el producto. preQty es la existencia total antes de la compra.
func (p *Pipeline) updateCost(item entity.CartItem, preQty decimal.Decimal) error {
	product, err := p.products.GetByID(item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	newCost := costing.WeightedAverage(preQty, product.Cost, item.Quantity, item.UnitPrice)
	return p.products.UpdateCost(item.ProductID, newCost)
}

func (p *Pipeline) repoFor(invoiceType string) repository.InvoiceRepository {
	if invoiceType == entity.InvoicePurchase || invoiceType == entity.InvoicePurchaseReturn {
		return p.purchases
	}
	return p.sales
}

// deriveInvoiceType tipo de factura derivado del modo + flag de devolución.
func deriveInvoiceType(tab *entity.CartSession) string {
	switch {
	case tab.Mode == entity.ModePurchase && tab.Return:
		return entity.InvoicePurchaseReturn
	case tab.Mode == entity.ModePurchase:
		return entity.InvoicePurchase
	case tab.Return:
		return entity.InvoiceSaleReturn
	default:
		return entity.InvoiceSale
	}
}

// stockDelta delta de inventario con signo: suman las compras y las
// devoluciones de venta; restan las ventas y las devoluciones de compra.
func stockDelta(invoiceType string, qty decimal.Decimal) decimal.Decimal {
	switch invoiceType {
	case entity.InvoicePurchase, entity.InvoiceSaleReturn:
		return qty
	default:
		return qty.Neg()
	}
}

// totals neto, descuento y utilidad del carrito (siempre en positivo; el
// llamador aplica el signo de devolución).
func totals(items []entity.CartItem) (net, discount, profit decimal.Decimal) {
	for i := range items {
		net = net.Add(items[i].UnitPrice.Mul(items[i].Quantity))
		discount = discount.Add(items[i].Discount)
		profit = profit.Add(items[i].UnitPrice.Sub(items[i].CostPrice).Mul(items[i].Quantity))
	}
	return net, discount, profit
}

func cloneItems(items []entity.CartItem) []entity.CartItem {
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	return out
}
