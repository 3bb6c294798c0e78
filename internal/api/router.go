package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"finboard/dashboard/internal/api/handlers"
	"finboard/dashboard/internal/api/middleware"
	"finboard/dashboard/internal/cache"
	"finboard/dashboard/internal/config"
	"finboard/dashboard/internal/services"
	"finboard/dashboard/internal/storage"
	"finboard/dashboard/internal/tasks"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, taskClient tasks.Enqueuer) *gin.Engine {
	// Initialize services needed by API handlers
	invoiceStore := services.NewMongoInvoiceStore(db)
	invalidator := tasks.NewInvalidator(taskClient)
	invoiceService := services.NewInvoiceService(invoiceStore, invalidator, cfg.ItemsPerPage)
	customerService := services.NewCustomerService(db)
	dashboardService := services.NewDashboardService(db, invoiceStore)
	userService := services.NewUserService(db)
	pathCache := cache.NewPathCache(rdb, cfg.GetCacheTTL)

	avatarStorage, err := storage.NewAvatarStorage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
	}

	r := gin.Default()

	// Initialize Middleware
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	// Apply global middleware first (order matters)
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, userService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, pathCache)
	customerHandler := handlers.NewCustomerHandler(customerService, avatarStorage, taskClient)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	v1 := r.Group("/v1")
	{
		// Public Routes (rate limiting already applied globally)
		v1.POST("/login", authHandler.Login)
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Authenticated Routes
		authRequired := v1.Group("/dashboard")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.GET("", dashboardHandler.GetOverview)

			authRequired.GET("/invoices", invoiceHandler.ListInvoices)
			authRequired.GET("/invoices/:id", invoiceHandler.GetInvoice)
			authRequired.POST("/invoices", invoiceHandler.CreateInvoice)
			authRequired.PUT("/invoices/:id", invoiceHandler.UpdateInvoice)
			authRequired.DELETE("/invoices/:id", invoiceHandler.DeleteInvoice)

			authRequired.GET("/customers", customerHandler.ListCustomers)
			authRequired.GET("/customers/fields", customerHandler.CustomerFields)
			authRequired.POST("/customers/:id/avatar", customerHandler.RequestAvatarUpload)
			authRequired.POST("/customers/:id/avatar/complete", customerHandler.CompleteAvatarUpload)
		}
	}

	return r
}
