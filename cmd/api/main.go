package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ConectaTel/conecta_api/internal/cache"
	"github.com/ConectaTel/conecta_api/internal/config"
	"github.com/ConectaTel/conecta_api/internal/database"
	"github.com/ConectaTel/conecta_api/internal/handler"
	"github.com/ConectaTel/conecta_api/internal/middleware"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/worker"
	"github.com/ConectaTel/conecta_api/pkg/mailer"
	"github.com/ConectaTel/conecta_api/pkg/whatsapp"
)

// main is the application entrypoint for the Conecta storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting conecta api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize session and cart caches
	sessionCache := cache.NewSessionCache(redisClient, cfg.Session.TTL, cfg.Session.ModalityTTL)
	cartCache := cache.NewCartCache(redisClient, cfg.Session.TTL)

	// 4. Initialize messaging provider clients
	var whatsappClient *whatsapp.Client
	if cfg.WhatsApp.AccessToken != "" {
		whatsappClient = whatsapp.NewClient(whatsapp.Config{
			BaseURL:     cfg.WhatsApp.BaseURL,
			PhoneID:     cfg.WhatsApp.PhoneID,
			AccessToken: cfg.WhatsApp.AccessToken,
		})
		log.Info().Msg("WhatsApp provider configured")
	}

	var mailerClient *mailer.Client
	if cfg.Mailer.APIKey != "" {
		mailerClient = mailer.NewClient(mailer.Config{
			BaseURL:     cfg.Mailer.BaseURL,
			APIKey:      cfg.Mailer.APIKey,
			FromAddress: cfg.Mailer.FromAddress,
			FromName:    cfg.Mailer.FromName,
		})
		log.Info().Msg("Email provider configured")
	}

	// 5. Initialize repositories
	channelRepo := repository.NewChannelRepository(db)
	planRepo := repository.NewPlanRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(channelRepo)
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	channelSvc := service.NewChannelService(channelRepo)
	planSvc := service.NewPlanService(planRepo)
	catalogSvc := service.NewCatalogService(planRepo, sessionCache, &cfg.Scoring)
	cartSvc := service.NewCartService(cartCache, sessionCache, planRepo, orderRepo, customerRepo)
	orderSvc := service.NewOrderService(orderRepo, campaignRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	templateSvc := service.NewTemplateService(templateRepo)
	campaignSvc := service.NewCampaignService(campaignRepo, customerRepo, templateSvc, whatsappClient, mailerClient)

	mediaSvc, err := service.NewMediaService(&cfg.Media)
	if err != nil {
		log.Warn().Err(err).Msg("Media service initialization failed - campaign uploads will be disabled")
	}

	// 6a. Seed the bootstrap admin account when credentials are provided
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := adminAuthSvc.EnsureAdmin(cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			log.Error().Err(err).Msg("bootstrap admin creation failed")
			fmt.Fprintf(os.Stderr, "bootstrap admin creation failed: %v\n", err)
			os.Exit(1)
		}
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(adminAuthSvc),
		Catalog:  handler.NewCatalogHandler(catalogSvc, planSvc),
		Cart:     handler.NewCartHandler(cartSvc),
		Order:    handler.NewOrderHandler(orderSvc),
		Customer: handler.NewCustomerHandler(customerSvc),
		Campaign: handler.NewCampaignHandler(campaignSvc, mediaSvc),
		Template: handler.NewTemplateHandler(templateSvc),
		Channel:  handler.NewChannelHandler(channelSvc),
		Plan:     handler.NewPlanHandler(planSvc),
		Webhook:  handler.NewWebhookHandler(campaignSvc, cfg.WhatsApp.WebhookSecret, cfg.Mailer.WebhookSecret),
	}

	// 8. Initialize middleware
	authLimiter := middleware.NewInvalidAuthRateLimiter(cfg.Auth.RateLimitAttempts, cfg.Auth.RateLimitWindow)
	authMw := middleware.NewAuthMiddleware(authSvc, authLimiter)
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewCampaignWorker(campaignSvc, cfg.Worker.CampaignInterval, cfg.Worker.CampaignStaleAfter).Start(ctx)
	if mailerClient != nil {
		go worker.NewReminderWorker(cartCache, mailerClient, cfg.Worker.ReminderInterval, cfg.Worker.CartAbandonAfter).Start(ctx)
	} else {
		log.Warn().Msg("Email provider not configured - abandoned-cart reminders disabled")
	}

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Customer *handler.CustomerHandler
	Campaign *handler.CampaignHandler
	Template *handler.TemplateHandler
	Channel  *handler.ChannelHandler
	Plan     *handler.PlanHandler
	Webhook  *handler.WebhookHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware, jwtMiddleware *middleware.JWTMiddleware) {
	// Provider webhook endpoints
	router.POST("/webhook/whatsapp", handlers.Webhook.HandleWhatsAppReceipt)
	router.POST("/webhook/mailer", handlers.Webhook.HandleMailerReceipt)

	router.GET("/v1/health", handlers.Health.GetHealth)

	// Storefront routes (protected with channel API key)
	store := router.Group("/v1/store")
	store.Use(authMiddleware.Handle())
	{
		store.GET("/catalog", handlers.Catalog.GetCatalog)
		store.GET("/filters", handlers.Catalog.GetFilters)
		store.GET("/context", handlers.Catalog.GetContext)
		store.PUT("/context", handlers.Catalog.UpdateContext)
		store.POST("/events", handlers.Catalog.RecordEvent)

		store.GET("/cart", handlers.Cart.GetCart)
		store.DELETE("/cart", handlers.Cart.ClearCart)
		store.POST("/cart/items", handlers.Cart.AddItem)
		store.PUT("/cart/items/:plan_id", handlers.Cart.UpdateQuantity)
		store.DELETE("/cart/items/:plan_id", handlers.Cart.RemoveItem)
		store.POST("/cart/items/:plan_id/duplicate", handlers.Cart.DuplicateItem)
		store.PUT("/cart/email", handlers.Cart.SetContactEmail)
		store.POST("/cart/checkout", handlers.Cart.Checkout)

		store.GET("/orders/:order_number", handlers.Order.TrackOrder)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.Use(jwtMiddleware.Handle())
	{
		// Dashboard
		admin.GET("/dashboard", handlers.Order.GetDashboard)

		// Channel Management
		admin.POST("/channels", handlers.Channel.CreateChannel)
		admin.GET("/channels", handlers.Channel.ListChannels)
		admin.GET("/channels/:id", handlers.Channel.GetChannel)
		admin.PUT("/channels/:id", handlers.Channel.UpdateChannel)
		admin.POST("/channels/:id/regenerate", handlers.Channel.RegenerateKeys)

		// Catalog Management
		admin.GET("/plans", handlers.Plan.ListPlans)
		admin.POST("/plans", handlers.Plan.CreatePlan)
		admin.GET("/plans/:id", handlers.Plan.GetPlan)
		admin.PUT("/plans/:id", handlers.Plan.UpdatePlan)
		admin.DELETE("/plans/:id", handlers.Plan.DeletePlan)

		// Customer Management
		admin.POST("/customers", handlers.Customer.CreateCustomer)
		admin.GET("/customers", handlers.Customer.ListCustomers)
		admin.GET("/customers/:id", handlers.Customer.GetCustomer)
		admin.PUT("/customers/:id", handlers.Customer.UpdateCustomer)
		admin.DELETE("/customers/:id", handlers.Customer.DeleteCustomer)

		// Order Management
		admin.GET("/orders", handlers.Order.ListOrders)
		admin.GET("/orders/:id", handlers.Order.GetOrder)
		admin.PUT("/orders/:id/status", handlers.Order.UpdateOrderStatus)

		// Template Management
		admin.POST("/templates", handlers.Template.CreateTemplate)
		admin.GET("/templates", handlers.Template.ListTemplates)
		admin.GET("/templates/:id", handlers.Template.GetTemplate)
		admin.PUT("/templates/:id", handlers.Template.UpdateTemplate)
		admin.DELETE("/templates/:id", handlers.Template.DeleteTemplate)
		admin.POST("/templates/:id/preview", handlers.Template.PreviewTemplate)

		// Campaign Management
		admin.POST("/campaigns", handlers.Campaign.CreateCampaign)
		admin.GET("/campaigns", handlers.Campaign.ListCampaigns)
		admin.GET("/campaigns/:id", handlers.Campaign.GetCampaign)
		admin.PUT("/campaigns/:id", handlers.Campaign.UpdateCampaign)
		admin.GET("/campaigns/:id/sends", handlers.Campaign.GetCampaignSends)
		admin.POST("/campaigns/:id/schedule", handlers.Campaign.ScheduleCampaign)
		admin.POST("/campaigns/:id/cancel", handlers.Campaign.CancelCampaign)
		admin.POST("/campaigns/:id/media", handlers.Campaign.UploadMedia)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
