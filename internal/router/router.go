package router

import (
	"database/sql"

	"vetcare_backend/internal/handlers"
	"vetcare_backend/internal/middleware"
	"vetcare_backend/internal/repositories"
	"vetcare_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Options carries the configuration the route tree needs.
type Options struct {
	// InvoicePageSize is the default page size for invoice listings.
	InvoicePageSize int
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, opts Options) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	clientService := services.NewClientService(clientRepo, db)
	stockService := services.NewStockService(stockRepo, db)
	invoiceService := services.NewInvoiceService(invoiceRepo, stockRepo, clientRepo, db, opts.InvoicePageSize)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	clientHandler := handlers.NewClientHandler(clientService)
	stockHandler := handlers.NewStockHandler(stockService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupClientRoutes(authenticated, clientHandler)
		SetupStockRoutes(authenticated, stockHandler)
		SetupInvoiceRoutes(authenticated, invoiceHandler)
	}
}

// SetupPublicAuthRoutes registers the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterUser)
	group.POST("/login", authHandler.LoginUser)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes registers token-protected auth routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
