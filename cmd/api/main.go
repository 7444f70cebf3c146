package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Tienda-api/internal/application/cart"
	"github.com/jhoicas/Tienda-api/internal/application/catalog"
	"github.com/jhoicas/Tienda-api/internal/application/checkout"
	"github.com/jhoicas/Tienda-api/internal/application/realtime"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Tienda-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Tienda-api/internal/interfaces/http"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	mediaRepo := postgres.NewMediaRepository(pool)
	saleRepo := postgres.NewSaleInvoiceRepository(pool)
	purchaseRepo := postgres.NewPurchaseInvoiceRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	drawerRepo := postgres.NewCashDrawerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Pestañas del carrito: Redis si está configurado, memoria si no.
	var sessionStore cart.SessionStore = cart.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		redisStore := infraredis.NewSessionStore(cfg.Redis)
		if err := redisStore.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis no disponible, las pestañas no sobrevivirán reinicios")
		} else {
			sessionStore = redisStore
			defer redisStore.Close()
			log.Info().Str("addr", cfg.Redis.Addr).Msg("pestañas del carrito en redis")
		}
	}

	cartManager := cart.NewManager(sessionStore, productRepo, saleRepo, purchaseRepo, log)
	if err := cartManager.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudieron restaurar las pestañas persistidas")
	}

	pipeline := checkout.NewPipeline(
		saleRepo, purchaseRepo, productRepo, inventoryRepo, variantRepo,
		customerRepo, supplierRepo, drawerRepo, txRunner, log,
	)

	snapshotBuilder := catalog.NewSnapshotBuilder(
		productRepo, locationRepo, inventoryRepo, variantRepo, mediaRepo, log,
	)

	// Canal de cambios: triggers de la DB -> NOTIFY -> reconstrucción debounced.
	reconciler := realtime.NewReconciler(
		snapshotBuilder,
		time.Duration(cfg.Realtime.DebounceMS)*time.Millisecond,
		log,
	)
	events := make(chan realtime.Event, 64)
	listener := postgres.NewListener(cfg.DB, cfg.Realtime.Channel, log)
	go listener.Run(ctx, events)
	go reconciler.Run(ctx, events)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SnapshotBuilder: snapshotBuilder,
		Reconciler:      reconciler,
		CartManager:     cartManager,
		Pipeline:        pipeline,
		Inventory:       inventoryRepo,
		Locations:       locationRepo,
		Products:        productRepo,
		Customers:       customerRepo,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
