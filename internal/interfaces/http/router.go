package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-pro/internal/application/auth"
	"github.com/tu-usuario/tienda-pro/internal/application/deliveries"
	"github.com/tu-usuario/tienda-pro/internal/application/inventory"
	"github.com/tu-usuario/tienda-pro/internal/application/leads"
	"github.com/tu-usuario/tienda-pro/internal/application/purchases"
	"github.com/tu-usuario/tienda-pro/internal/application/sales"
	"github.com/tu-usuario/tienda-pro/internal/application/usecase"
	"github.com/tu-usuario/tienda-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	CatalogUC   *usecase.CatalogUseCase
	ItemUC      *inventory.ItemUseCase
	LeadUC      *leads.LeadUseCase
	SaleUC      *sales.SaleUseCase
	PurchaseUC  *purchases.PurchaseUseCase
	DeliveryUC  *deliveries.DeliveryUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth y onboarding (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)

	// Tienda propia (solo admin muta)
	protected.Get("/company", companyHandler.GetMine)
	protected.Put("/company", RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Bodegas
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Update)

	// Catálogo: categorías y proveedores
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Post("/categories", catalogHandler.CreateCategory)
	protected.Get("/categories", catalogHandler.ListCategories)
	protected.Post("/suppliers", catalogHandler.CreateSupplier)
	protected.Get("/suppliers", catalogHandler.ListSuppliers)

	// Artículos
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id/price", itemHandler.UpdatePrice)
	items.Put("/:id/stock", itemHandler.UpdateStock)
	items.Post("/:id/reserve", itemHandler.Reserve)
	items.Post("/:id/release", itemHandler.Release)
	items.Delete("/:id", itemHandler.Hide)

	// Clientes potenciales
	leadsGroup := protected.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC)
	leadsGroup.Post("/", leadHandler.Create)
	leadsGroup.Get("/", leadHandler.List)
	leadsGroup.Get("/:id", leadHandler.GetByID)
	leadsGroup.Put("/:id", leadHandler.Update)
	leadsGroup.Post("/:id/convert/:sale_id", leadHandler.Convert)

	// Ventas y abonos
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Post("/:id/payments", saleHandler.AddPayment)
	salesGroup.Delete("/:id/payments/:payment_id", saleHandler.DeletePayment)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	// Lotes de compra
	purchasesGroup := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchasesGroup.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), purchaseHandler.Create)
	purchasesGroup.Get("/", purchaseHandler.List)
	purchasesGroup.Get("/:id", purchaseHandler.GetByID)
	purchasesGroup.Delete("/:id", RequireRole(entity.RoleAdmin), purchaseHandler.Delete)
	purchasesGroup.Post("/:id/lines/:line_id/items", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), purchaseHandler.CreateItem)

	// Entregas
	deliveriesGroup := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveriesGroup.Post("/", deliveryHandler.Schedule)
	deliveriesGroup.Get("/", deliveryHandler.List)
	deliveriesGroup.Get("/:id", deliveryHandler.GetByID)
	deliveriesGroup.Post("/:id/advance", deliveryHandler.Advance)
	deliveriesGroup.Post("/:id/complete", deliveryHandler.Complete)
}
