package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/pabloubeiracarramal/factor-back/internal/caching"
	"github.com/pabloubeiracarramal/factor-back/internal/handlers"
	"github.com/pabloubeiracarramal/factor-back/internal/jobs"
	"github.com/pabloubeiracarramal/factor-back/internal/middleware"
	"github.com/pabloubeiracarramal/factor-back/internal/pdf"
	"github.com/pabloubeiracarramal/factor-back/internal/repositories"
	"github.com/pabloubeiracarramal/factor-back/internal/services"
)

const statsRefreshInterval = 10 * time.Minute

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	archiveSvc, err := services.NewArchiveService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize archive service: %v", err)
	}

	// Create repositories
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)
	clientRepo := repositories.NewClientRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	invitationRepo := repositories.NewInvitationRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	invoiceSvc := services.NewInvoiceService(invoiceRepo, clientRepo, cacheSvc)
	dashboardSvc := services.NewDashboardService(invoiceRepo, clientRepo, userRepo, invitationRepo, cacheSvc)
	renderer := pdf.NewRenderer(pdf.DefaultLayout())

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(userRepo, jwtSecret)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, companyRepo, clientRepo, renderer, archiveSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	clientHandlers := handlers.NewClientHandlers(clientRepo)
	companyHandlers := handlers.NewCompanyHandlers(companyRepo)

	// Background stats refresh
	refresher, err := jobs.NewStatsRefresher(companyRepo, dashboardSvc, statsRefreshInterval)
	if err != nil {
		log.Fatalf("Failed to create stats refresher: %v", err)
	}
	if err := refresher.Start(); err != nil {
		log.Fatalf("Failed to start stats refresher: %v", err)
	}
	defer refresher.Stop()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for login)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))

	// Invoice routes
	protected.GET("/invoices", invoiceHandlers.ListInvoices)
	protected.POST("/invoices", invoiceHandlers.CreateInvoice)
	protected.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	protected.PUT("/invoices/:id", invoiceHandlers.UpdateInvoice)
	protected.DELETE("/invoices/:id", invoiceHandlers.DeleteInvoice)
	protected.POST("/invoices/:id/confirm", invoiceHandlers.ConfirmInvoice)
	protected.POST("/invoices/:id/pay", invoiceHandlers.PayInvoice)
	protected.GET("/invoices/:id/pdf", invoiceHandlers.GetInvoicePDF)
	protected.POST("/invoices/:id/archive", invoiceHandlers.ArchiveInvoicePDF)

	// Dashboard routes
	protected.GET("/dashboard/stats", dashboardHandlers.GetStats)

	// Client routes
	protected.GET("/clients", clientHandlers.ListClients)
	protected.POST("/clients", clientHandlers.CreateClient)
	protected.GET("/clients/:id", clientHandlers.GetClient)
	protected.PUT("/clients/:id", clientHandlers.UpdateClient)
	protected.DELETE("/clients/:id", clientHandlers.DeleteClient)

	// Company routes
	protected.GET("/company", companyHandlers.GetCompany)
	protected.PUT("/company", companyHandlers.UpdateCompany)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on port %s", port)
	if err := e.Start(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
