package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/farmlink-api/internal/application/analytics"
	"github.com/jhoicas/farmlink-api/internal/application/auth"
	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/application/media"
	"github.com/jhoicas/farmlink-api/internal/application/messaging"
	"github.com/jhoicas/farmlink-api/internal/application/usecase"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/ws"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ListingUC   *usecase.ListingUseCase
	PurchaseUC  *marketplace.PurchaseUseCase
	SaleUC      *usecase.SaleUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *analytics.DashboardUseCase
	MessagingUC *messaging.UseCase
	MediaUC     *media.UseCase
	Hub         *ws.Hub // opcional: sin hub no se expone /ws

	Metrics     HTTPObserver   // opcional
	AuthLimiter *IPRateLimiter // opcional: límite por IP en /api/auth
	CORSOrigins string
	Log         *logger.Logger
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	errs := NewErrorMapper(log)

	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	if deps.Metrics != nil {
		app.Use(MetricsMiddleware(deps.Metrics))
	}
	origins := strings.TrimSpace(deps.CORSOrigins)
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Realtime: el token viaja en la query, no pasa por AuthMiddleware
	if deps.Hub != nil {
		wsHandler := NewWSHandler(deps.Hub, deps.AuthUC, errs)
		app.Get("/ws", wsHandler.Upgrade, wsHandler.Connect())
	}

	api := app.Group("/api", AuthMiddleware(deps.AuthUC))

	farmer := RequireRole(entity.RoleFarmer)
	buyer := RequireRole(entity.RoleBuyer)
	admin := RequireRole(entity.RoleAdmin)
	anyUser := RequireRole()

	// Auth (público salvo logout/me)
	authHandler := NewAuthHandler(deps.AuthUC, errs)
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter.Middleware())
	}
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", anyUser, authHandler.Logout)
	authGroup.Get("/me", anyUser, authHandler.Me)

	api.Get("/session", authHandler.Session)
	api.Get("/session/views", authHandler.View)

	// Cultivos
	listingHandler := NewListingHandler(deps.ListingUC, deps.PurchaseUC, errs)
	listings := api.Group("/listings")
	listings.Post("/", farmer, listingHandler.Create)
	listings.Get("/mine", farmer, listingHandler.ListMine)
	listings.Get("/:id", anyUser, listingHandler.GetByID)
	listings.Patch("/:id", RequireRole(entity.RoleFarmer, entity.RoleAdmin), listingHandler.Update)
	listings.Put("/:id/status", RequireRole(entity.RoleFarmer, entity.RoleAdmin), listingHandler.SetStatus)
	listings.Delete("/:id", RequireRole(entity.RoleFarmer, entity.RoleAdmin), listingHandler.Delete)
	listings.Post("/:id/purchase", buyer, listingHandler.Purchase)

	api.Get("/marketplace", buyer, listingHandler.Marketplace)
	api.Get("/categories", listingHandler.Categories)

	// Ventas y compras
	saleHandler := NewSaleHandler(deps.SaleUC, errs)
	api.Get("/sales", farmer, saleHandler.SalesReport)
	api.Get("/sales/:id", anyUser, saleHandler.GetByID)
	api.Get("/sales/:id/receipt", anyUser, saleHandler.Receipt)
	api.Get("/purchases", buyer, saleHandler.PurchaseHistory)

	// Tableros
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, errs)
	dashboard := api.Group("/dashboard")
	dashboard.Get("/farmer", farmer, dashboardHandler.Farmer)
	dashboard.Get("/buyer", buyer, dashboardHandler.Buyer)
	dashboard.Get("/admin", admin, dashboardHandler.Admin)

	// Administración
	adminHandler := NewAdminHandler(deps.UserUC, deps.ListingUC, errs)
	adminGroup := api.Group("/admin", admin)
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Delete("/users/:id", adminHandler.DeleteUser)
	adminGroup.Get("/listings", adminHandler.ListListings)

	// Mensajes
	messageHandler := NewMessageHandler(deps.MessagingUC, errs)
	messages := api.Group("/messages", anyUser)
	messages.Post("/", messageHandler.Send)
	messages.Get("/unread", messageHandler.Unread)
	messages.Get("/with/:userId", messageHandler.Thread)

	// Imágenes
	if deps.MediaUC != nil {
		uploadHandler := NewUploadHandler(deps.MediaUC, errs)
		api.Post("/uploads/images", farmer, uploadHandler.UploadImage)
	}
}
