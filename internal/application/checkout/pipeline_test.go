package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/checkout"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices   map[string]*entity.Invoice
	lines      map[string][]*entity.InvoiceLine
	nextNumber int64
	failLines  bool // fuerza el fallo de CreateLine (prueba de compensación)
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		lines:    make(map[string][]*entity.InvoiceLine),
	}
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	f.nextNumber++
	inv.Number = f.nextNumber
	f.invoices[inv.ID] = inv
	return nil
}
func (f *fakeInvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	if f.failLines {
		return errors.New("insert line failed")
	}
	f.lines[line.InvoiceID] = append(f.lines[line.InvoiceID], line)
	return nil
}
func (f *fakeInvoiceRepo) Delete(id string) error {
	delete(f.invoices, id)
	return nil
}
func (f *fakeInvoiceRepo) DeleteLines(invoiceID string) error {
	delete(f.lines, invoiceID)
	return nil
}
func (f *fakeInvoiceRepo) UpdateTotals(invoiceID string, net, discount, tax, total, profit decimal.Decimal) error {
	inv, ok := f.invoices[invoiceID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.NetTotal, inv.Discount, inv.Tax, inv.Total, inv.Profit = net, discount, tax, total, profit
	return nil
}
func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) { return f.invoices[id], nil }
func (f *fakeInvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	return f.lines[invoiceID], nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(p *entity.Product) error {
	f.products[p.ID] = p
	return nil
}
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error)     { return f.products[id], nil }
func (f *fakeProductRepo) GetByBarcode(b string) (*entity.Product, error) { return nil, nil }
func (f *fakeProductRepo) ListAll() ([]*entity.Product, error)            { return nil, nil }
func (f *fakeProductRepo) Update(p *entity.Product) error                 { return nil }
func (f *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	if p, ok := f.products[id]; ok {
		p.Cost = cost
	}
	return nil
}
func (f *fakeProductRepo) Delete(id string) error { return nil }

/// fakeInventoryRepo replica la semántica de acotamiento del storage real:
// GREATEST(0, quantity+delta), y con delta negativo no crea filas.
type fakeInventoryRepo struct {
	qty map[string]decimal.Decimal // clave productID|locKey
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{qty: make(map[string]decimal.Decimal)}
}

func invKey(productID string, loc entity.LocationRef) string { return productID + "|" + loc.Key() }

func (f *fakeInventoryRepo) Get(productID string, loc entity.LocationRef) (*entity.InventoryRecord, error) {
	q, ok := f.qty[invKey(productID, loc)]
	if !ok {
		return nil, nil
	}
	return &entity.InventoryRecord{ProductID: productID, Location: loc, Quantity: q}, nil
}
func (f *fakeInventoryRepo) ListByProducts(ids []string) ([]*entity.InventoryRecord, error) {
	return nil, nil
}
func (f *fakeInventoryRepo) ApplyDelta(productID string, loc entity.LocationRef, delta decimal.Decimal) error {
	key := invKey(productID, loc)
	current, ok := f.qty[key]
	if !ok && delta.IsNegative() {
		return nil
	}
	next := current.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	f.qty[key] = next
	return nil
}
func (f *fakeInventoryRepo) TotalOnHand(productID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for key, q := range f.qty {
		if len(key) > len(productID) && key[:len(productID)+1] == productID+"|" {
			total = total.Add(q)
		}
	}
	return total, nil
}
func (f *fakeInventoryRepo) UpdateAuditStatus(string, entity.LocationRef, string) error { return nil }
func (f *fakeInventoryRepo) UpdateMinStock(string, entity.LocationRef, decimal.Decimal) error {
	return nil
}
func (f *fakeInventoryRepo) SetQuantity(productID string, loc entity.LocationRef, q decimal.Decimal) error {
	f.qty[invKey(productID, loc)] = q
	return nil
}

type fakeVariantRepo struct {
	defs map[string]*entity.VariantDefinition // por id
	qty  map[string]decimal.Decimal           // defID|branchID
}

func newFakeVariantRepo() *fakeVariantRepo {
	return &fakeVariantRepo{
		defs: make(map[string]*entity.VariantDefinition),
		qty:  make(map[string]decimal.Decimal),
	}
}

func (f *fakeVariantRepo) ListDefinitionsByProducts([]string) ([]*entity.VariantDefinition, error) {
	return nil, nil
}
func (f *fakeVariantRepo) ListQuantitiesByDefinitions([]string) ([]*entity.VariantQuantity, error) {
	return nil, nil
}
func (f *fakeVariantRepo) GetOrCreateUnspecified(productID string) (*entity.VariantDefinition, error) {
	for _, def := range f.defs {
		if def.ProductID == productID && def.IsUnspecified() {
			return def, nil
		}
	}
	def := &entity.VariantDefinition{
		ID:        "unspec-" + productID,
		ProductID: productID,
		Kind:      entity.VariantColor,
		Name:      entity.UnspecifiedVariantName,
	}
	f.defs[def.ID] = def
	return def, nil
}
func (f *fakeVariantRepo) ApplyQuantityDelta(defID, branchID string, delta decimal.Decimal) error {
	key := defID + "|" + branchID
	next := f.qty[key].Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}
	f.qty[key] = next
	return nil
}

type fakeCustomerRepo struct {
	balances map[string]decimal.Decimal
}

func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return &entity.Customer{ID: id, Balance: f.balances[id]}, nil
}
func (f *fakeCustomerRepo) AdjustBalance(id string, delta decimal.Decimal) error {
	f.balances[id] = f.balances[id].Add(delta)
	return nil
}
func (f *fakeCustomerRepo) CreatePayment(*entity.CustomerPayment) error { return nil }

type fakeSupplierRepo struct {
	balances map[string]decimal.Decimal
}

func (f *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return &entity.Supplier{ID: id, Balance: f.balances[id]}, nil
}
func (f *fakeSupplierRepo) AdjustBalance(id string, delta decimal.Decimal) error {
	f.balances[id] = f.balances[id].Add(delta)
	return nil
}

type fakeDrawerRepo struct {
	balance decimal.Decimal
	txns    []*entity.CashDrawerTransaction
}

func (f *fakeDrawerRepo) GetByID(id string) (*entity.CashDrawer, error) {
	return &entity.CashDrawer{ID: id, Balance: f.balance, Active: true}, nil
}
func (f *fakeDrawerRepo) AdjustBalance(id string, delta decimal.Decimal) (decimal.Decimal, error) {
	f.balance = f.balance.Add(delta)
	return f.balance, nil
}
func (f *fakeDrawerRepo) CreateTransaction(txn *entity.CashDrawerTransaction) error {
	f.txns = append(f.txns, txn)
	return nil
}
func (f *fakeDrawerRepo) GetTransactionByInvoice(invoiceID string) (*entity.CashDrawerTransaction, error) {
	for _, txn := range f.txns {
		if txn.InvoiceID == invoiceID && txn.Type != entity.CashTxnAdjustment {
			return txn, nil
		}
	}
	return nil, nil
}
func (f *fakeDrawerRepo) AmendTransaction(id string, amount, balanceAfter decimal.Decimal) error {
	for _, txn := range f.txns {
		if txn.ID == id {
			txn.Amount, txn.BalanceAfter = amount, balanceAfter
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeTxRunner ejecuta el callback directamente (sin transacción real).
type fakeTxRunner struct {
	sales     repository.InvoiceRepository
	purchases repository.InvoiceRepository
}

func (f *fakeTxRunner) RunSales(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(f.sales)
}
func (f *fakeTxRunner) RunPurchases(ctx context.Context, fn func(repository.InvoiceRepository) error) error {
	return fn(f.purchases)
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	pipeline  *checkout.Pipeline
	sales     *fakeInvoiceRepo
	purchases *fakeInvoiceRepo
	products  *fakeProductRepo
	inventory *fakeInventoryRepo
	variants  *fakeVariantRepo
	customers *fakeCustomerRepo
	suppliers *fakeSupplierRepo
	drawers   *fakeDrawerRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sales:     newFakeInvoiceRepo(),
		purchases: newFakeInvoiceRepo(),
		products: &fakeProductRepo{products: map[string]*entity.Product{
			"p1": {ID: "p1", Name: "Arroz", Price: d("10"), Cost: d("5"), Active: true},
		}},
		inventory: newFakeInventoryRepo(),
		variants:  newFakeVariantRepo(),
		customers: &fakeCustomerRepo{balances: make(map[string]decimal.Decimal)},
		suppliers: &fakeSupplierRepo{balances: make(map[string]decimal.Decimal)},
		drawers:   &fakeDrawerRepo{},
	}
	f.pipeline = checkout.NewPipeline(
		f.sales, f.purchases, f.products, f.inventory, f.variants,
		f.customers, f.suppliers, f.drawers,
		&fakeTxRunner{sales: f.sales, purchases: f.purchases},
		logger.Nop(),
	)
	return f
}

var branch = entity.LocationRef{Kind: entity.LocationBranch, ID: "b1"}

func saleTab(items ...entity.CartItem) *entity.CartSession {
	return &entity.CartSession{
		ID:    "tab1",
		Mode:  entity.ModeSale,
		Items: items,
		Context: entity.CartContext{
			Counterparty: entity.CounterpartyRef{Kind: entity.CounterpartyCustomer, ID: "c1"},
			Location:     branch,
			CashDrawerID: "caja1",
			PriceTier:    entity.PriceTierBase,
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_CarritoVacio(t *testing.T) {
	f := newFixture(t)
	_, err := f.pipeline.Commit(context.Background(), saleTab(), "u1")
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCommit_VentaSinContexto(t *testing.T) {
	f := newFixture(t)
	tab := saleTab(entity.CartItem{ID: "i1", ProductID: "p1", Quantity: d("1"), UnitPrice: d("10")})
	tab.Context.CashDrawerID = ""
	_, err := f.pipeline.Commit(context.Background(), tab, "u1")
	assert.ErrorIs(t, err, domain.ErrMissingContext)
}

// Una compra con contraparte de clase CUSTOMER es un error de contexto.
func TestCommit_CompraExigeProveedor(t *testing.T) {
	f := newFixture(t)
	tab := saleTab(entity.CartItem{ID: "i1", ProductID: "p1", Quantity: d("1"), UnitPrice: d("5")})
	tab.Mode = entity.ModePurchase
	_, err := f.pipeline.Commit(context.Background(), tab, "u1")
	assert.ErrorIs(t, err, domain.ErrMissingContext)
}

// ──────────────────────────────────────────────────────────────────────────────
// Venta
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_VentaDescuentaStockYRegistraCaja(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.inventory.SetQuantity("p1", branch, d("3")))

	tab := saleTab(entity.CartItem{
		ID: "i1", ProductID: "p1", Quantity: d("3"), UnitPrice: d("10"), CostPrice: d("5"),
	})
	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceSale, resp.Type)
	assert.True(t, d("30").Equal(resp.Total), "total = 3×10")
	assert.True(t, d("15").Equal(resp.Profit), "utilidad = (10−5)×3")
	assert.Empty(t, resp.Warnings)

	// Invariante de la cabecera: Total == neto − descuentos + impuesto.
	inv := f.sales.invoices[resp.InvoiceID]
	require.NotNil(t, inv)
	assert.True(t, inv.Total.Equal(inv.NetTotal.Sub(inv.Discount).Add(inv.Tax)))

	// Inventario en cero, caja y saldo del cliente ajustados por el total.
	rec, _ := f.inventory.Get("p1", branch)
	require.NotNil(t, rec)
	assert.True(t, rec.Quantity.IsZero())
	assert.True(t, d("30").Equal(f.drawers.balance))
	require.Len(t, f.drawers.txns, 1)
	assert.Equal(t, entity.CashTxnSale, f.drawers.txns[0].Type)
	assert.True(t, d("30").Equal(f.customers.balances["c1"]))
}

// Vender más de lo que hay no es error: la cantidad se acota a cero en el
// storage y la factura se registra por el total completo.
func TestCommit_VentaConSobreventaAcotaACero(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.inventory.SetQuantity("p1", branch, d("2")))

	tab := saleTab(entity.CartItem{ID: "i1", ProductID: "p1", Quantity: d("5"), UnitPrice: d("10")})
	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	assert.True(t, d("50").Equal(resp.Total))
	rec, _ := f.inventory.Get("p1", branch)
	assert.True(t, rec.Quantity.IsZero(), "la existencia nunca queda negativa")
}

func TestCommit_DevolucionDeVentaNiegaYRepone(t *testing.T) {
	f := newFixture(t)
	tab := saleTab(entity.CartItem{
		ID: "i1", ProductID: "p1", Quantity: d("2"), UnitPrice: d("10"), CostPrice: d("5"),
	})
	tab.Return = true

	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceSaleReturn, resp.Type)
	assert.True(t, d("-20").Equal(resp.Total), "el total de una devolución va negado")
	assert.True(t, d("-10").Equal(resp.Profit))

	lines := f.sales.lines[resp.InvoiceID]
	require.Len(t, lines, 1)
	assert.True(t, d("-2").Equal(lines[0].Quantity), "las cantidades de línea van con signo")

	// La devolución repone stock y descuenta de la caja y del saldo.
	rec, _ := f.inventory.Get("p1", branch)
	require.NotNil(t, rec)
	assert.True(t, d("2").Equal(rec.Quantity))
	assert.True(t, d("-20").Equal(f.drawers.balance))
	assert.Equal(t, entity.CashTxnReturn, f.drawers.txns[0].Type)
	assert.True(t, d("-20").Equal(f.customers.balances["c1"]))
}

// El reparto por variantes manda las cantidades a sus definiciones y el
// remanente al bucket sin especificar.
func TestCommit_VentaConRepartoDeVariantes(t *testing.T) {
	f := newFixture(t)
	f.variants.defs["v-rojo"] = &entity.VariantDefinition{ID: "v-rojo", ProductID: "p1", Kind: entity.VariantColor, Name: "Rojo"}
	f.variants.qty["v-rojo|b1"] = d("10")

	tab := saleTab(entity.CartItem{
		ID: "i1", ProductID: "p1", Quantity: d("5"), UnitPrice: d("10"),
		VariantSplit: map[string]decimal.Decimal{"v-rojo": d("3")},
	})
	_, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	assert.True(t, d("7").Equal(f.variants.qty["v-rojo|b1"]), "3 de las 5 salieron de Rojo")
	assert.True(t, f.variants.qty["unspec-p1|b1"].IsZero(), "el remanente (2) se acota a cero en el bucket")
}

// ──────────────────────────────────────────────────────────────────────────────
// Compra
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_CompraSumaStockYRecalculaCosto(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.inventory.SetQuantity("p1", branch, d("10")))

	tab := saleTab(entity.CartItem{
		ID: "i1", ProductID: "p1", Quantity: d("5"), UnitPrice: d("8"), CostPrice: d("5"),
	})
	tab.Mode = entity.ModePurchase
	tab.Context.Counterparty = entity.CounterpartyRef{Kind: entity.CounterpartySupplier, ID: "s1"}

	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.InvoicePurchase, resp.Type)
	assert.True(t, d("40").Equal(resp.Total))

	rec, _ := f.inventory.Get("p1", branch)
	assert.True(t, d("15").Equal(rec.Quantity))

	// Costo promedio con la existencia ANTES de la compra: (10×5 + 5×8)/15 = 6.
	product, _ := f.products.GetByID("p1")
	assert.True(t, d("6").Equal(product.Cost), "costo esperado 6, obtuvo %s", product.Cost)

	// La compra sale de la caja y sube el saldo del proveedor.
	assert.True(t, d("-40").Equal(f.drawers.balance))
	assert.Equal(t, entity.CashTxnPurchase, f.drawers.txns[0].Type)
	assert.True(t, d("40").Equal(f.suppliers.balances["s1"]))
	assert.Empty(t, f.customers.balances, "una compra jamás toca saldos de clientes")
}

// Un producto borrador se persiste durante el commit y las líneas quedan
// apuntando al id definitivo del catálogo.
func TestCommit_CompraResuelveBorradores(t *testing.T) {
	f := newFixture(t)
	tab := saleTab(entity.CartItem{
		ID: "i1", ProductID: "draft-1", ProductName: "Nuevo", Draft: true,
		Quantity: d("4"), UnitPrice: d("3"),
	})
	tab.Mode = entity.ModePurchase
	tab.Context.Counterparty = entity.CounterpartyRef{Kind: entity.CounterpartySupplier, ID: "s1"}

	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	lines := f.purchases.lines[resp.InvoiceID]
	require.Len(t, lines, 1)
	assert.NotEqual(t, "draft-1", lines[0].ProductID, "la línea apunta al id persistido")
	created, _ := f.products.GetByID(lines[0].ProductID)
	require.NotNil(t, created, "el borrador quedó en el catálogo")
	assert.Equal(t, "Nuevo", created.Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslado
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_TrasladoMueveStockSinDinero(t *testing.T) {
	f := newFixture(t)
	from := entity.LocationRef{Kind: entity.LocationWarehouse, ID: "w1"}
	to := branch
	require.NoError(t, f.inventory.SetQuantity("p1", from, d("5")))

	tab := &entity.CartSession{
		ID:   "tab1",
		Mode: entity.ModeTransfer,
		Items: []entity.CartItem{{
			ID: "i1", ProductID: "p1", Quantity: d("2"), UnitPrice: d("10"),
		}},
		Context: entity.CartContext{
			FromLocation: from,
			ToLocation:   to,
			CashDrawerID: "caja1",
		},
	}

	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	assert.Equal(t, entity.InvoiceTransfer, resp.Type)
	assert.True(t, resp.Total.IsZero(), "un traslado no mueve dinero")

	src, _ := f.inventory.Get("p1", from)
	dst, _ := f.inventory.Get("p1", to)
	assert.True(t, d("3").Equal(src.Quantity))
	assert.True(t, d("2").Equal(dst.Quantity))

	assert.True(t, f.drawers.balance.IsZero(), "la caja no se toca en traslados")
	assert.Empty(t, f.drawers.txns)
	inv := f.sales.invoices[resp.InvoiceID]
	require.NotNil(t, inv, "la cabecera del traslado vive en la tabla de ventas")
	assert.True(t, inv.Total.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Compensación
// ──────────────────────────────────────────────────────────────────────────────

// Si la inserción de líneas falla, la cabecera ya insertada debe deshacerse:
// nunca puede quedar una factura sin líneas.
func TestCommit_FalloDeLineasCompensaCabecera(t *testing.T) {
	f := newFixture(t)
	f.sales.failLines = true

	tab := saleTab(entity.CartItem{ID: "i1", ProductID: "p1", Quantity: d("1"), UnitPrice: d("10")})
	_, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.Error(t, err)

	var commitErr *checkout.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, "insertar_lineas", commitErr.Step)

	assert.Empty(t, f.sales.invoices, "la cabecera se eliminó al compensar")
	assert.True(t, f.drawers.balance.IsZero(), "nada posterior al fallo se ejecutó")
	assert.Empty(t, f.customers.balances)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición
// ──────────────────────────────────────────────────────────────────────────────

func TestCommit_EdicionAjustaTotalesYSaldos(t *testing.T) {
	f := newFixture(t)

	// Venta original: 3×10 = 30.
	tab := saleTab(entity.CartItem{
		ID: "i1", ProductID: "p1", Quantity: d("3"), UnitPrice: d("10"), CostPrice: d("5"),
	})
	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)
	require.True(t, d("30").Equal(f.customers.balances["c1"]))
	require.True(t, d("30").Equal(f.drawers.balance))

	// Edición: la cantidad sube a 5 → total 50, diferencia +20.
	edit := saleTab(entity.CartItem{
		ID: "i2", ProductID: "p1", Quantity: d("5"), UnitPrice: d("10"), CostPrice: d("5"),
	})
	edit.EditInvoiceID = resp.InvoiceID

	editResp, err := f.pipeline.Commit(context.Background(), edit, "u1")
	require.NoError(t, err)
	assert.Equal(t, resp.InvoiceID, editResp.InvoiceID, "la edición no crea factura nueva")
	assert.True(t, d("50").Equal(editResp.Total))

	inv := f.sales.invoices[resp.InvoiceID]
	assert.True(t, d("50").Equal(inv.Total))
	lines := f.sales.lines[resp.InvoiceID]
	require.Len(t, lines, 1, "las líneas viejas se reemplazaron")
	assert.True(t, d("5").Equal(lines[0].Quantity))

	// La diferencia (+20) se aplicó al saldo y a la caja.
	assert.True(t, d("50").Equal(f.customers.balances["c1"]))
	assert.True(t, d("50").Equal(f.drawers.balance))

	// El movimiento original se corrigió y quedó un ADJUSTMENT de rastro.
	original, _ := f.drawers.GetTransactionByInvoice(resp.InvoiceID)
	require.NotNil(t, original)
	assert.True(t, d("50").Equal(original.Amount))
	last := f.drawers.txns[len(f.drawers.txns)-1]
	assert.Equal(t, entity.CashTxnAdjustment, last.Type)
	assert.True(t, d("20").Equal(last.Amount))
}

// Una pestaña de edición ligada a un traslado se rechaza: la cabecera de un
// traslado nunca debe llevar montos y la ruta de edición escribe totales.
func TestCommit_EdicionDeTrasladoSeRechaza(t *testing.T) {
	f := newFixture(t)
	from := entity.LocationRef{Kind: entity.LocationWarehouse, ID: "w1"}
	require.NoError(t, f.inventory.SetQuantity("p1", from, d("5")))

	transfer := &entity.CartSession{
		ID:   "tab1",
		Mode: entity.ModeTransfer,
		Items: []entity.CartItem{{
			ID: "i1", ProductID: "p1", Quantity: d("2"), UnitPrice: d("10"),
		}},
		Context: entity.CartContext{
			FromLocation: from,
			ToLocation:   branch,
			CashDrawerID: "caja1",
		},
	}
	resp, err := f.pipeline.Commit(context.Background(), transfer, "u1")
	require.NoError(t, err)

	edit := saleTab(entity.CartItem{ID: "i2", ProductID: "p1", Quantity: d("2"), UnitPrice: d("10")})
	edit.EditInvoiceID = resp.InvoiceID
	_, err = f.pipeline.Commit(context.Background(), edit, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inv := f.sales.invoices[resp.InvoiceID]
	require.NotNil(t, inv)
	assert.True(t, inv.Total.IsZero(), "un traslado nunca debe llevar montos")
	require.Len(t, f.sales.lines[resp.InvoiceID], 1, "las líneas del traslado quedan intactas")
	assert.True(t, f.drawers.balance.IsZero())
	assert.Empty(t, f.drawers.txns)
	assert.Empty(t, f.customers.balances)
}

// Editar a carrito vacío es legítimo: borra todas las líneas y deja el total en cero.
func TestCommit_EdicionACarritoVacio(t *testing.T) {
	f := newFixture(t)

	tab := saleTab(entity.CartItem{ID: "i1", ProductID: "p1", Quantity: d("2"), UnitPrice: d("10")})
	resp, err := f.pipeline.Commit(context.Background(), tab, "u1")
	require.NoError(t, err)

	edit := saleTab()
	edit.EditInvoiceID = resp.InvoiceID
	editResp, err := f.pipeline.Commit(context.Background(), edit, "u1")
	require.NoError(t, err)

	assert.True(t, editResp.Total.IsZero())
	assert.Empty(t, f.sales.lines[resp.InvoiceID])
	assert.True(t, f.customers.balances["c1"].IsZero(), "el saldo retrocedió por la diferencia (−20)")
}
