package router

import (
	"vetcare_backend/internal/handlers"
	"vetcare_backend/internal/middleware"
	"vetcare_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes. Deleting a client is
// restricted to admins; everything else is open to all clinic staff.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	clientRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleVet, models.RoleAssistant))
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
	}
	authenticatedGroup.DELETE("/clients/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), clientHandler.DeleteClient)
}

// SetupStockRoutes sets up the stock item routes. All three categories
// share the same endpoints; the category travels in the payload or as a
// query filter.
func SetupStockRoutes(authenticatedGroup *gin.RouterGroup, stockHandler *handlers.StockHandler) {
	stockRoutes := authenticatedGroup.Group("/stock-items")
	stockRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleVet, models.RoleAssistant))
	{
		stockRoutes.POST("", stockHandler.CreateStockItem)
		stockRoutes.GET("", stockHandler.GetStockItems)
		stockRoutes.GET("/:id", stockHandler.GetStockItemByID)
		stockRoutes.PUT("/:id", stockHandler.UpdateStockItem)
		stockRoutes.DELETE("/:id", stockHandler.DeleteStockItem)
	}
}

// SetupInvoiceRoutes sets up the invoice routes.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleVet))
	{
		invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
		invoiceRoutes.GET("", invoiceHandler.GetInvoices)
		invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
		invoiceRoutes.PUT("/:id", invoiceHandler.UpdateInvoice)
		invoiceRoutes.PATCH("/:id/pay", invoiceHandler.MarkInvoicePaid)
		invoiceRoutes.DELETE("/:id", invoiceHandler.DeleteInvoice)
	}
}
