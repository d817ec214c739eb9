package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/farmlink-api/docs"
	"github.com/jhoicas/farmlink-api/internal/application/analytics"
	"github.com/jhoicas/farmlink-api/internal/application/auth"
	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/application/media"
	"github.com/jhoicas/farmlink-api/internal/application/messaging"
	"github.com/jhoicas/farmlink-api/internal/application/usecase"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/farmlink-api/internal/infrastructure/pdf"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/storage"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/ws"
	httpRouter "github.com/jhoicas/farmlink-api/internal/interfaces/http"
	"github.com/jhoicas/farmlink-api/pkg/config"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

// @title                       FarmLink API
// @version                     1.0
// @description                 Marketplace de cultivos entre agricultores y compradores.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageBackend).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer be.close()

	sessions, closeSessions, err := openRevocationStore(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("revocación de sesiones")
	}
	defer closeSessions()

	objects, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.PublicURL)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de imágenes")
	}

	var (
		purchaseObserver marketplace.PurchaseObserver
		httpObserver     httpRouter.HTTPObserver
		appMetrics       *metrics.Metrics
	)
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New(cfg.Metrics.Prefix)
		purchaseObserver = appMetrics
		httpObserver = appMetrics
	}

	hub := ws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	authUC := auth.NewAuthUseCase(be.users, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Named("auth"))
	listingUC := usecase.NewListingUseCase(be.listings)
	purchaseUC := marketplace.NewPurchaseUseCase(be.tx, purchaseObserver, log.Named("purchase"))
	saleUC := usecase.NewSaleUseCase(be.sales, be.users, infrapdf.NewMarotoPDFGenerator(cfg.App.Name))
	userUC := usecase.NewUserUseCase(be.users, be.listings, authUC, log.Named("users"))
	dashboardUC := analytics.NewDashboardUseCase(be.users, be.listings, be.sales, be.messages)
	messagingUC := messaging.NewUseCase(be.messages, be.users, be.listings, hub, log.Named("messaging"))
	mediaUC := media.NewUseCase(objects, cfg.Upload.MaxBytes)

	errMapper := httpRouter.NewErrorMapper(log)
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		// multipart de la imagen + margen para los campos del formulario
		BodyLimit:    int(cfg.Upload.MaxBytes) + 1<<20,
		ErrorHandler: errMapper.Handler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FarmLink API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := be.ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if appMetrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))
	}
	app.Static("/uploads", objects.Dir(), fiber.Static{MaxAge: 3600})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ListingUC:   listingUC,
		PurchaseUC:  purchaseUC,
		SaleUC:      saleUC,
		UserUC:      userUC,
		DashboardUC: dashboardUC,
		MessagingUC: messagingUC,
		MediaUC:     mediaUC,
		Hub:         hub,
		Metrics:     httpObserver,
		AuthLimiter: httpRouter.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log.Named("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
