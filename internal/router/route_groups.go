package router

import (
	"github.com/gin-gonic/gin"

	"alegria_backend/internal/handlers"
	"alegria_backend/internal/middleware"
	"alegria_backend/internal/models"
	"alegria_backend/pkg/utils"
)

// SetupPublicAuthRoutes sets up login and registration. Registration is open until
// the first account exists; after that an Admin token is needed.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler, tokens *utils.TokenManager) {
	group.POST("/login", authHandler.LoginUser)
	group.POST("/register", middleware.OptionalAuthMiddleware(tokens), authHandler.RegisterUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupCatalogueRoutes sets up product categories and products. Writes need Admin.
func SetupCatalogueRoutes(authenticatedGroup *gin.RouterGroup, catalogueHandler *handlers.CatalogueHandler) {
	categoryRoutes := authenticatedGroup.Group("/product-categories")
	categoryRoutes.Use(middleware.AdminOnlyForWrites())
	{
		categoryRoutes.POST("", catalogueHandler.CreateCategory)
		categoryRoutes.GET("", catalogueHandler.GetCategories)
		categoryRoutes.GET("/:id", catalogueHandler.GetCategoryByID)
		categoryRoutes.GET("/:id/products", catalogueHandler.GetCategoryProducts)
		categoryRoutes.PUT("/:id", catalogueHandler.UpdateCategory)
		categoryRoutes.DELETE("/:id", catalogueHandler.DeleteCategory)
	}

	productRoutes := authenticatedGroup.Group("/products")
	productRoutes.Use(middleware.AdminOnlyForWrites())
	{
		productRoutes.POST("", catalogueHandler.CreateProduct)
		productRoutes.GET("", catalogueHandler.GetProducts)
		productRoutes.GET("/:id", catalogueHandler.GetProductByID)
		productRoutes.PUT("/:id", catalogueHandler.UpdateProduct)
		productRoutes.DELETE("/:id", catalogueHandler.DeleteProduct)
	}
}

// SetupRoomRoutes sets up room types and rooms. Writes need Admin.
func SetupRoomRoutes(authenticatedGroup *gin.RouterGroup, roomHandler *handlers.RoomHandler) {
	roomTypeRoutes := authenticatedGroup.Group("/room-types")
	roomTypeRoutes.Use(middleware.AdminOnlyForWrites())
	{
		roomTypeRoutes.POST("", roomHandler.CreateRoomType)
		roomTypeRoutes.GET("", roomHandler.GetRoomTypes)
		roomTypeRoutes.GET("/:id", roomHandler.GetRoomTypeByID)
		roomTypeRoutes.PUT("/:id", roomHandler.UpdateRoomType)
		roomTypeRoutes.DELETE("/:id", roomHandler.DeleteRoomType)
	}

	roomRoutes := authenticatedGroup.Group("/rooms")
	roomRoutes.Use(middleware.AdminOnlyForWrites())
	{
		roomRoutes.POST("", roomHandler.CreateRoom)
		roomRoutes.GET("", roomHandler.GetRooms)
		roomRoutes.GET("/:id", roomHandler.GetRoomByID)
		roomRoutes.PUT("/:id", roomHandler.UpdateRoom)
		roomRoutes.DELETE("/:id", roomHandler.DeleteRoom)
	}
}

// SetupClientRoutes sets up the hotel guest routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	clientRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupReservationRoutes sets up the hotel reservation routes.
func SetupReservationRoutes(authenticatedGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler) {
	reservationRoutes := authenticatedGroup.Group("/reservations")
	reservationRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		reservationRoutes.POST("", reservationHandler.CreateReservation)
		reservationRoutes.GET("", reservationHandler.GetReservations)
		reservationRoutes.GET("/occupied", reservationHandler.GetOccupiedReservations)
		reservationRoutes.GET("/:id", reservationHandler.GetReservationByID)
		reservationRoutes.PUT("/:id", reservationHandler.UpdateReservation)
		reservationRoutes.DELETE("/:id", reservationHandler.DeleteReservation)
	}
}

// SetupBarRoutes sets up the open tickets of the tables.
func SetupBarRoutes(authenticatedGroup *gin.RouterGroup, barHandler *handlers.BarHandler) {
	barRoutes := authenticatedGroup.Group("/bar")
	barRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		barRoutes.GET("/tickets", barHandler.GetTickets)
		barRoutes.GET("/tickets/:id", barHandler.GetTicketByID)
		barRoutes.DELETE("/tickets/:id", barHandler.DeleteTicket)
		barRoutes.POST("/tickets/:id/print", barHandler.PrintTicket)
		barRoutes.POST("/tickets/:id/unlock", barHandler.UnlockTicket)
		barRoutes.POST("/tickets/:id/pay", barHandler.PayTicket)

		barRoutes.POST("/tables/:location/:table/products", barHandler.AddProductToTable)

		barRoutes.PATCH("/products/:id", barHandler.UpdateTemporalProduct)
		barRoutes.DELETE("/products/:id", barHandler.DeleteTemporalProduct)
	}
}

// SetupInvoiceRoutes sets up the simple invoice management routes.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		invoiceRoutes.GET("", invoiceHandler.GetInvoices)
		invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
		invoiceRoutes.GET("/:id/document", invoiceHandler.RenderInvoice)
		invoiceRoutes.POST("/:id/pay", invoiceHandler.MarkInvoicePaid)
		invoiceRoutes.DELETE("/:id", invoiceHandler.DeleteInvoice)
	}
}

// SetupReportRoutes sets up the report routes. Reports are for Admin only.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		reportRoutes.GET("/sales", reportHandler.GetSalesReport)
	}
}

// SetupStaffRoutes sets up staff account management. Admin only.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/staff")
	staffRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		staffRoutes.GET("", staffHandler.GetStaff)
		staffRoutes.GET("/:id", staffHandler.GetStaffByID)
		staffRoutes.PATCH("/:id", staffHandler.UpdateStaff)
		staffRoutes.PUT("/:id/password", staffHandler.ResetPassword)
	}
}
