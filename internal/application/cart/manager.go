package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// Manager administra las pestañas concurrentes del carrito como un almacén de
// sesiones explícito: map[tabID]registro inmutable bajo mutex, y toda mutación
// se expresa como "reemplazar el registro de la pestaña". Exactamente una
// pestaña está activa; las pospuestas salen de la franja visible pero no se
// destruyen hasta cerrarlas. Cada mutación se replica al SessionStore para
// sobrevivir recargas (fallo de persistencia = warning, no bloquea).
type Manager struct {
	mu       sync.Mutex
	tabs     map[string]*entity.CartSession
	activeID string

	store     SessionStore
	products  repository.ProductRepository
	sales     repository.InvoiceRepository
	purchases repository.InvoiceRepository
	log       *logger.Logger
}

// NewManager construye el administrador. sales/purchases se usan solo para
// cargar líneas de facturas existentes al entrar en modo edición.
func NewManager(
	store SessionStore,
	products repository.ProductRepository,
	sales, purchases repository.InvoiceRepository,
	log *logger.Logger,
) *Manager {
	return &Manager{
		tabs:      make(map[string]*entity.CartSession),
		store:     store,
		products:  products,
		sales:     sales,
		purchases: purchases,
		log:       log,
	}
}

// Restore recarga las pestañas persistidas (arranque del proceso).
func (m *Manager) Restore(ctx context.Context) error {
	sessions, activeID, err := m.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("restaurar pestañas: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range sessions {
		m.tabs[s.ID] = s
	}
	if _, ok := m.tabs[activeID]; ok {
		m.activeID = activeID
	} else if len(m.tabs) > 0 {
		m.activeID = m.anyVisibleLocked()
	}
	return nil
}

// NewTab crea una pestaña y la vuelve activa.
func (m *Manager) NewTab(ctx context.Context, title, mode string) (*entity.CartSession, error) {
	if mode == "" {
		mode = entity.ModeSale
	}
	switch mode {
	case entity.ModeSale, entity.ModePurchase, entity.ModeTransfer:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	session := &entity.CartSession{
		ID:        uuid.New().String(),
		Title:     title,
		Mode:      mode,
		Items:     []entity.CartItem{},
		Context:   entity.CartContext{PriceTier: entity.PriceTierBase},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if session.Title == "" {
		session.Title = fmt.Sprintf("Pestaña %s", now.Format("15:04:05"))
	}

	m.mu.Lock()
	m.tabs[session.ID] = session
	m.activeID = session.ID
	m.mu.Unlock()

	m.persist(ctx, session)
	m.persistActive(ctx)
	return session.Clone(), nil
}

// Tabs devuelve el estado completo: activa, franja visible y pospuestas.
func (m *Manager) Tabs() dto.TabsResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	resp := dto.TabsResponse{ActiveTabID: m.activeID}
	for _, s := range m.tabs {
		if s.Postponed {
			resp.Postponed = append(resp.Postponed, s.Clone())
		} else {
			resp.Tabs = append(resp.Tabs, s.Clone())
		}
	}
	sort.Slice(resp.Tabs, func(i, j int) bool { return resp.Tabs[i].CreatedAt.Before(resp.Tabs[j].CreatedAt) })
	sort.Slice(resp.Postponed, func(i, j int) bool { return resp.Postponed[i].CreatedAt.Before(resp.Postponed[j].CreatedAt) })
	return resp
}

// ActiveTab devuelve una copia de la pestaña activa.
func (m *Manager) ActiveTab() (*entity.CartSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.activeLocked()
	if err != nil {
		return nil, err
	}
	return s.Clone(), nil
}

// Tab devuelve una copia de la pestaña indicada.
func (m *Manager) Tab(tabID string) (*entity.CartSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.tabs[tabID]
	if !ok {
		return nil, domain.ErrTabNotFound
	}
	return s.Clone(), nil
}

// SwitchTab cambia el puntero activo. La pestaña que deja de estar activa
// conserva su lista de líneas y sus flags tal cual (sin fusiones entre pestañas).
func (m *Manager) SwitchTab(ctx context.Context, tabID string) error {
	m.mu.Lock()
	s, ok := m.tabs[tabID]
	if !ok || s.Postponed {
		m.mu.Unlock()
		return domain.ErrTabNotFound
	}
	m.activeID = tabID
	m.mu.Unlock()

	m.persistActive(ctx)
	return nil
}

// CloseTab destruye una pestaña (activa, visible o pospuesta).
func (m *Manager) CloseTab(ctx context.Context, tabID string) error {
	m.mu.Lock()
	if _, ok := m.tabs[tabID]; !ok {
		m.mu.Unlock()
		return domain.ErrTabNotFound
	}
	delete(m.tabs, tabID)
	if m.activeID == tabID {
		m.activeID = m.anyVisibleLocked()
	}
	m.mu.Unlock()

	if err := m.store.Delete(ctx, tabID); err != nil {
		m.log.Warn().Err(err).Str("tab_id", tabID).Msg("carrito: no se pudo borrar la pestaña persistida")
	}
	m.persistActive(ctx)
	return nil
}

// SetMode cambia el modo base y/o el flag de devolución de la pestaña activa.
// Return es un toggle independiente: "devolución de compra" y "devolución de
// venta" son combinaciones de modo, no estados aparte.
func (m *Manager) SetMode(ctx context.Context, in dto.SetModeRequest) error {
	return m.mutateActive(ctx, func(s *entity.CartSession) error {
		if in.Mode != nil {
			switch *in.Mode {
			case entity.ModeSale, entity.ModePurchase, entity.ModeTransfer:
				s.Mode = *in.Mode
			default:
				return domain.ErrInvalidInput
			}
		}
		if in.Return != nil {
			s.Return = *in.Return
		}
		return nil
	})
}

// SetContext fija selecciones de contexto de la pestaña activa (solo los campos presentes).
func (m *Manager) SetContext(ctx context.Context, in dto.SetContextRequest) error {
	return m.mutateActive(ctx, func(s *entity.CartSession) error {
		if in.Counterparty != nil {
			s.Context.Counterparty = *in.Counterparty
		}
		if in.Location != nil {
			s.Context.Location = *in.Location
		}
		if in.FromLocation != nil {
			s.Context.FromLocation = *in.FromLocation
		}
		if in.ToLocation != nil {
			s.Context.ToLocation = *in.ToLocation
		}
		if in.CashDrawerID != nil {
			s.Context.CashDrawerID = *in.CashDrawerID
		}
		if in.PriceTier != nil {
			s.Context.PriceTier = *in.PriceTier
		}
		return nil
	})
}

// AddItem agrega una línea a la pestaña activa. Si el producto ya está en el
// carrito las cantidades se fusionan (aditivamente, o por clave de variante si
// viene un reparto) y el precio unitario se recalcula sobre la cantidad
// fusionada; si no, se agrega una línea nueva con precio resuelto por modo
// (costo en compras, nivel de precio seleccionado en lo demás).
func (m *Manager) AddItem(ctx context.Context, in dto.AddItemRequest) error {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	product, err := m.products.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	return m.mutateActive(ctx, func(s *entity.CartSession) error {
		// Compras exigen proveedor + ubicación antes de agregar líneas;
		// traslados exigen origen y destino. La edición ya pasó validación.
		if !s.IsEdit() {
			switch s.Mode {
			case entity.ModePurchase:
				if s.Context.Counterparty.IsZero() || s.Context.Location.IsZero() {
					return domain.ErrMissingContext
				}
			case entity.ModeTransfer:
				if s.Context.FromLocation.IsZero() || s.Context.ToLocation.IsZero() {
					return domain.ErrMissingContext
				}
			}
		}

		for i := range s.Items {
			if s.Items[i].ProductID != in.ProductID {
				continue
			}
			item := &s.Items[i]
			item.Quantity = item.Quantity.Add(in.Quantity)
			mergeVariantSplit(item, in.VariantSplit)
			if in.UnitPrice != nil {
				item.UnitPrice = *in.UnitPrice
			} else {
				item.UnitPrice = resolveUnitPrice(product, s)
			}
			if !in.Discount.IsZero() {
				item.Discount = in.Discount
			}
			return nil
		}

		unitPrice := resolveUnitPrice(product, s)
		if in.UnitPrice != nil {
			unitPrice = *in.UnitPrice
		}
		s.Items = append(s.Items, entity.CartItem{
			ID:           uuid.New().String(),
			ProductID:    product.ID,
			ProductName:  product.Name,
			Quantity:     in.Quantity,
			UnitPrice:    unitPrice,
			CostPrice:    product.Cost,
			Discount:     in.Discount,
			VariantSplit: in.VariantSplit,
		})
		return nil
	})
}

// AddDraftItem agrega una línea con un producto que todavía no existe en el
// catálogo. El id se asigna aquí; el commit persiste el producto y reescribe
// la línea al id definitivo.
func (m *Manager) AddDraftItem(ctx context.Context, in dto.AddDraftItemRequest) error {
	if in.Name == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return m.mutateActive(ctx, func(s *entity.CartSession) error {
		s.Items = append(s.Items, entity.CartItem{
			ID:          uuid.New().String(),
			ProductID:   uuid.New().String(),
			ProductName: in.Name,
			Draft:       true,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			CostPrice:   in.CostPrice,
			Discount:    in.Discount,
		})
		return nil
	})
}

// RemoveItem elimina una línea de la pestaña activa por id.
func (m *Manager) RemoveItem(ctx context.Context, itemID string) error {
	return m.mutateActive(ctx, func(s *entity.CartSession) error {
		for i := range s.Items {
			if s.Items[i].ID == itemID {
				s.Items = append(s.Items[:i], s.Items[i+1:]...)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// ClearItems vacía la pestaña activa sin tocar las demás.
func (m *Manager) ClearItems(ctx context.Context) error {
	return m.mutateActive(ctx, func(s *entity.CartSession) error {
		s.Items = []entity.CartItem{}
		return nil
	})
}

// Postpone aparca una pestaña con carrito no vacío: sale de la franja visible
// pero se conserva tal cual para restaurarla después.
func (m *Manager) Postpone(ctx context.Context, tabID string) error {
	m.mu.Lock()
	s, ok := m.tabs[tabID]
	if !ok {
		m.mu.Unlock()
		return domain.ErrTabNotFound
	}
	if len(s.Items) == 0 {
		m.mu.Unlock()
		return domain.ErrEmptyCart
	}
	next := s.Clone()
	next.Postponed = true
	next.UpdatedAt = time.Now()
	m.tabs[tabID] = next
	if m.activeID == tabID {
		m.activeID = m.anyVisibleLocked()
	}
	m.mu.Unlock()

	m.persist(ctx, next)
	m.persistActive(ctx)
	return nil
}

// RestorePostponed devuelve una pestaña pospuesta a la franja y la activa.
func (m *Manager) RestorePostponed(ctx context.Context, tabID string) error {
	m.mu.Lock()
	s, ok := m.tabs[tabID]
	if !ok || !s.Postponed {
		m.mu.Unlock()
		return domain.ErrTabNotFound
	}
	next := s.Clone()
	next.Postponed = false
	next.UpdatedAt = time.Now()
	m.tabs[tabID] = next
	m.activeID = tabID
	m.mu.Unlock()

	m.persist(ctx, next)
	m.persistActive(ctx)
	return nil
}

// BeginEdit carga las líneas de una factura existente en una pestaña nueva
// ligada a esa factura. La pestaña de edición relaja las validaciones de
// contexto (la factura ya las pasó al crearse) y admite carrito vacío en el
// commit ("borrar todas las líneas").
func (m *Manager) BeginEdit(ctx context.Context, invoiceID string) (*entity.CartSession, error) {
	inv, repo, err := m.findInvoice(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Type == entity.InvoiceTransfer {
		return nil, fmt.Errorf("un traslado no admite edición: %w", domain.ErrInvalidInput)
	}
	lines, err := repo.GetLines(invoiceID)
	if err != nil {
		return nil, err
	}

	mode := entity.ModeSale
	if inv.Type == entity.InvoicePurchase || inv.Type == entity.InvoicePurchaseReturn {
		mode = entity.ModePurchase
	}
	now := time.Now()
	session := &entity.CartSession{
		ID:            uuid.New().String(),
		Title:         fmt.Sprintf("Edición #%d", inv.Number),
		Mode:          mode,
		Return:        inv.IsReturn(),
		EditInvoiceID: invoiceID,
		Items:         make([]entity.CartItem, 0, len(lines)),
		Context: entity.CartContext{
			Counterparty: inv.Counterparty,
			Location:     inv.Location,
			CashDrawerID: inv.CashDrawerID,
			PriceTier:    entity.PriceTierBase,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, line := range lines {
		qty := line.Quantity
		if inv.IsReturn() {
			qty = qty.Neg() // las líneas se editan en positivo; el commit vuelve a negar
		}
		session.Items = append(session.Items, entity.CartItem{
			ID:        uuid.New().String(),
			ProductID: line.ProductID,
			Quantity:  qty,
			UnitPrice: line.UnitPrice,
			CostPrice: line.CostPrice,
			Discount:  line.Discount,
		})
	}

	m.mu.Lock()
	m.tabs[session.ID] = session
	m.activeID = session.ID
	m.mu.Unlock()

	m.persist(ctx, session)
	m.persistActive(ctx)
	return session.Clone(), nil
}

func (m *Manager) findInvoice(invoiceID string) (*entity.Invoice, repository.InvoiceRepository, error) {
	inv, err := m.sales.GetByID(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv != nil {
		return inv, m.sales, nil
	}
	inv, err = m.purchases.GetByID(invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	return inv, m.purchases, nil
}

// mutateActive clona la pestaña activa, aplica fn y reemplaza el registro.
func (m *Manager) mutateActive(ctx context.Context, fn func(s *entity.CartSession) error) error {
	m.mu.Lock()
	current, err := m.activeLocked()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		m.mu.Unlock()
		return err
	}
	next.UpdatedAt = time.Now()
	m.tabs[next.ID] = next
	m.mu.Unlock()

	m.persist(ctx, next)
	return nil
}

func (m *Manager) activeLocked() (*entity.CartSession, error) {
	if m.activeID == "" {
		return nil, domain.ErrNoActiveTab
	}
	s, ok := m.tabs[m.activeID]
	if !ok {
		return nil, domain.ErrNoActiveTab
	}
	return s, nil
}

func (m *Manager) anyVisibleLocked() string {
	best := ""
	var bestAt time.Time
	for id, s := range m.tabs {
		if s.Postponed {
			continue
		}
		if best == "" || s.CreatedAt.Before(bestAt) {
			best = id
			bestAt = s.CreatedAt
		}
	}
	return best
}

func (m *Manager) persist(ctx context.Context, s *entity.CartSession) {
	if err := m.store.Save(ctx, s); err != nil {
		m.log.Warn().Err(err).Str("tab_id", s.ID).Msg("carrito: no se pudo persistir la pestaña")
	}
}

func (m *Manager) persistActive(ctx context.Context) {
	m.mu.Lock()
	activeID := m.activeID
	m.mu.Unlock()
	if err := m.store.SaveActive(ctx, activeID); err != nil {
		m.log.Warn().Err(err).Msg("carrito: no se pudo persistir la pestaña activa")
	}
}

// resolveUnitPrice precio unitario según modo: costo en compras, nivel de
// precio seleccionado en lo demás (el descuento vigente aplica solo al nivel base).
func resolveUnitPrice(p *entity.Product, s *entity.CartSession) decimal.Decimal {
	if s.Mode == entity.ModePurchase {
		return p.Cost
	}
	if s.Context.PriceTier == entity.PriceTierBase || s.Context.PriceTier == "" {
		return p.FinalPrice(time.Now())
	}
	return p.PriceForTier(s.Context.PriceTier)
}

// mergeVariantSplit fusiona un reparto de variantes aditivamente por clave.
func mergeVariantSplit(item *entity.CartItem, split map[string]decimal.Decimal) {
	if len(split) == 0 {
		return
	}
	if item.VariantSplit == nil {
		item.VariantSplit = make(map[string]decimal.Decimal, len(split))
	}
	for k, v := range split {
		item.VariantSplit[k] = item.VariantSplit[k].Add(v)
	}
}
