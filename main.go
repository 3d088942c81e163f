package main

import (
	"context"
	"net/http"
	"os"

	"home-flavours/config"
	"home-flavours/handlers"
	"home-flavours/repository"
	"home-flavours/routes"
	"home-flavours/seed"
	"home-flavours/services"

	"github.com/gin-gonic/gin"
	"github.com/romana/rlog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		rlog.Critical("Invalid configuration:", err)
		os.Exit(1)
	}

	// Set Gin mode
	if cfg.GinMode == "" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	// Initialize database
	db, err := config.OpenDB(cfg.DB)
	if err != nil {
		rlog.Critical("Failed to connect to database:", err)
		os.Exit(1)
	}
	if err := config.Migrate(db); err != nil {
		rlog.Critical("Failed to migrate database:", err)
		os.Exit(1)
	}
	rlog.Info("Database connected and migrated")

	ctx := context.Background()
	store := repository.NewStore(db)

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		rlog.Critical("Failed to load seed data:", err)
		os.Exit(1)
	}
	if err := seed.Apply(ctx, store, data); err != nil {
		rlog.Critical("Failed to apply seed data:", err)
		os.Exit(1)
	}

	h := newHandler(ctx, cfg, store, data)
	if n, err := h.Auth.PurgeExpiredSessions(ctx); err != nil {
		rlog.Warn("Purge expired sessions:", err)
	} else if n > 0 {
		rlog.Infof("Purged %d expired sessions", n)
	}

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if err := store.Ping(c.Request.Context()); err != nil {
			status, code = "database unavailable", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "Home Flavours Tiffin Ordering API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍱 Welcome to Home Flavours - homemade tiffin, delivered",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "tiffin_maker", "admin"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h)

	rlog.Infof("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		rlog.Critical("Failed to start server:", err)
		os.Exit(1)
	}
}

func newHandler(ctx context.Context, cfg *config.Config, store *repository.Store, data *seed.Data) *handlers.Handler {
	var payments services.PaymentGateway = services.ManualGateway{}
	if cfg.StripeSecretKey != "" {
		payments = services.NewStripeGateway(cfg.StripeSecretKey, cfg.PaymentCurrency)
		rlog.Info("GPay orders settle through Stripe")
	}

	var mailer services.Mailer = services.LogMailer{}
	if cfg.SESSender != "" {
		m, err := services.NewSESMailer(ctx, cfg.AWSRegion, cfg.SESSender)
		if err != nil {
			rlog.Warn("SES disabled:", err)
		} else {
			mailer = m
		}
	}

	hub := services.NewRealtimeHub()
	auth := services.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL)
	catalog := services.NewCatalogService(store, data.Menu)
	makers := services.NewMakerService(store)
	cart := services.NewCartService(store, catalog)

	return &handlers.Handler{
		Auth:      auth,
		Catalog:   catalog,
		Makers:    makers,
		Menu:      services.NewMenuService(store, makers),
		Cart:      cart,
		Orders:    services.NewOrderService(store, cart, payments, hub, mailer),
		Dashboard: services.NewDashboardService(store),
		Admin:     services.NewAdminService(store, auth),
		Hub:       hub,
	}
}
