package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tienda-api/internal/application/cart"
	"github.com/jhoicas/Tienda-api/internal/application/catalog"
	"github.com/jhoicas/Tienda-api/internal/application/checkout"
	"github.com/jhoicas/Tienda-api/internal/application/realtime"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SnapshotBuilder *catalog.SnapshotBuilder
	Reconciler      *realtime.Reconciler
	CartManager     *cart.Manager
	Pipeline        *checkout.Pipeline
	Inventory       repository.InventoryRepository
	Locations       repository.LocationRepository
	Products        repository.ProductRepository
	Customers       repository.CustomerRepository
	JWTSecret       string
}

// Router registra las rutas de la API. Todo el tráfico va protegido con
// Bearer Token; las acciones de inventario exigen además rol de bodega o admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Snapshot del catálogo (protegido)
	snapshotHandler := NewSnapshotHandler(deps.SnapshotBuilder, deps.Reconciler)
	protected.Get("/snapshot", snapshotHandler.Get)

	// Registro de ubicaciones (protegido)
	locationHandler := NewLocationHandler(deps.Locations)
	protected.Get("/locations", locationHandler.List)

	// Catálogo de productos (protegido; mutaciones exigen rol)
	productHandler := NewProductHandler(deps.Products)
	protected.Get("/products/barcode/:code", productHandler.GetByBarcode)
	protected.Get("/products/:id", productHandler.GetByID)
	protected.Post("/products", RequireRole("admin", "bodeguero"), productHandler.Create)
	protected.Put("/products/:id", RequireRole("admin", "bodeguero"), productHandler.Update)
	protected.Delete("/products/:id", RequireRole("admin"), productHandler.Delete)

	// Clientes y abonos (protegido)
	customerHandler := NewCustomerHandler(deps.Customers)
	protected.Get("/customers/:id", customerHandler.GetByID)
	protected.Post("/customers/:id/payments", customerHandler.CreatePayment)

	// Carrito multi-pestaña (protegido)
	cartGroup := protected.Group("/cart")
	cartHandler := NewCartHandler(deps.CartManager)
	cartGroup.Get("/tabs", cartHandler.Tabs)
	cartGroup.Post("/tabs", cartHandler.NewTab)
	cartGroup.Post("/tabs/:id/activate", cartHandler.SwitchTab)
	cartGroup.Post("/tabs/:id/postpone", cartHandler.Postpone)
	cartGroup.Post("/tabs/:id/restore", cartHandler.RestorePostponed)
	cartGroup.Delete("/tabs/:id", cartHandler.CloseTab)
	cartGroup.Put("/mode", cartHandler.SetMode)
	cartGroup.Put("/context", cartHandler.SetContext)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Post("/items/draft", cartHandler.AddDraftItem)
	cartGroup.Delete("/items/:id", cartHandler.RemoveItem)
	cartGroup.Delete("/items", cartHandler.ClearItems)
	cartGroup.Post("/edit/:invoiceID", cartHandler.BeginEdit)

	// Commit de la pestaña (protegido)
	checkoutHandler := NewCheckoutHandler(deps.CartManager, deps.Pipeline)
	protected.Post("/checkout/commit", checkoutHandler.Commit)

	// Acciones puntuales de inventario (protegido + rol)
	actionHandler := NewActionHandler(deps.Inventory, deps.Locations)
	protected.Post("/actions", RequireRole("admin", "bodeguero"), actionHandler.Dispatch)
}
