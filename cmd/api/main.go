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
	"github.com/tu-usuario/tienda-pro/internal/application/auth"
	"github.com/tu-usuario/tienda-pro/internal/application/deliveries"
	"github.com/tu-usuario/tienda-pro/internal/application/inventory"
	"github.com/tu-usuario/tienda-pro/internal/application/leads"
	"github.com/tu-usuario/tienda-pro/internal/application/purchases"
	"github.com/tu-usuario/tienda-pro/internal/application/sales"
	"github.com/tu-usuario/tienda-pro/internal/application/usecase"
	infrapdf "github.com/tu-usuario/tienda-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/tienda-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/tienda-pro/internal/interfaces/http"
	"github.com/tu-usuario/tienda-pro/pkg/config"
	"github.com/tu-usuario/tienda-pro/pkg/logger"
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	deliveryRepo := postgres.NewDeliveryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()

	authUC := auth.NewUseCase(userRepo, warehouseRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	catalogUC := usecase.NewCatalogUseCase(categoryRepo, supplierRepo)
	itemUC := inventory.NewItemUseCase(txRunner, itemRepo, warehouseRepo, categoryRepo)
	leadUC := leads.NewLeadUseCase(txRunner, leadRepo)
	saleUC := sales.NewSaleUseCase(txRunner, saleRepo, paymentRepo, itemRepo, leadRepo, warehouseRepo, companyRepo, receiptGenerator)
	purchaseUC := purchases.NewPurchaseUseCase(txRunner, purchaseRepo, supplierRepo, categoryRepo, warehouseRepo)
	deliveryUC := deliveries.NewDeliveryUseCase(txRunner, deliveryRepo, warehouseRepo)

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
		Title:    "Tienda Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		WarehouseUC: warehouseUC,
		CatalogUC:   catalogUC,
		ItemUC:      itemUC,
		LeadUC:      leadUC,
		SaleUC:      saleUC,
		PurchaseUC:  purchaseUC,
		DeliveryUC:  deliveryUC,
		JWTSecret:   cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
