package router

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"alegria_backend/internal/config"
	"alegria_backend/internal/handlers"
	"alegria_backend/internal/middleware"
	"alegria_backend/internal/repositories"
	"alegria_backend/internal/services"
	"alegria_backend/pkg/utils"
)

// Handlers groups every HTTP handler the routes are bound to.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Catalogue   *handlers.CatalogueHandler
	Rooms       *handlers.RoomHandler
	Clients     *handlers.ClientHandler
	Reservation *handlers.ReservationHandler
	Bar         *handlers.BarHandler
	Invoices    *handlers.InvoiceHandler
	Reports     *handlers.ReportHandler
	Staff       *handlers.StaffHandler
}

// NewHandlers builds the repositories, services and handlers over db.
func NewHandlers(cfg *config.Config, db *sql.DB, tokens *utils.TokenManager) *Handlers {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	categoryRepo := repositories.NewProductCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	roomTypeRepo := repositories.NewRoomTypeRepository(db)
	roomRepo := repositories.NewRoomRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	ticketRepo := repositories.NewTemporalTicketRepository(db)
	invoiceRepo := repositories.NewSimpleInvoiceRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	txManager := repositories.NewTxManager(db)

	// Initialize Services
	renderer := services.NewDocumentRenderer(services.BusinessInfo{
		Name:    cfg.BusinessName,
		TaxID:   cfg.BusinessTaxID,
		Address: cfg.BusinessAddress,
	})
	authService := services.NewAuthService(authRepo, txManager, tokens)
	catalogueService := services.NewCatalogueService(categoryRepo, productRepo, db)
	roomService := services.NewRoomService(roomTypeRepo, roomRepo, db)
	clientService := services.NewClientService(clientRepo, db)
	reservationService := services.NewReservationService(reservationRepo, roomRepo, roomTypeRepo, clientRepo, invoiceRepo, txManager, db)
	barService := services.NewBarService(ticketRepo, productRepo, invoiceRepo, reservationRepo, txManager, renderer)
	invoiceService := services.NewSimpleInvoiceService(invoiceRepo, db, renderer)
	staffService := services.NewStaffService(staffRepo, authRepo, txManager)

	// Initialize Handlers
	pageSize := cfg.DefaultPageSize
	return &Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Catalogue:   handlers.NewCatalogueHandler(catalogueService, pageSize),
		Rooms:       handlers.NewRoomHandler(roomService, pageSize),
		Clients:     handlers.NewClientHandler(clientService, pageSize),
		Reservation: handlers.NewReservationHandler(reservationService, pageSize),
		Bar:         handlers.NewBarHandler(barService),
		Invoices:    handlers.NewInvoiceHandler(invoiceService, pageSize),
		Reports:     handlers.NewReportHandler(invoiceService),
		Staff:       handlers.NewStaffHandler(staffService, pageSize),
	}
}

// Setup builds the Gin engine: global middleware, then the /api/v1 routes.
func Setup(cfg *config.Config, h *Handlers, tokens *utils.TokenManager) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rateLimit, err := middleware.RateLimitMiddleware(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to set up rate limiting: %w", err)
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(rateLimit)

	SetupPublicAuthRoutes(apiV1.Group("/auth"), h.Auth, tokens)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), h.Auth)
		SetupCatalogueRoutes(authenticated, h.Catalogue)
		SetupRoomRoutes(authenticated, h.Rooms)
		SetupClientRoutes(authenticated, h.Clients)
		SetupReservationRoutes(authenticated, h.Reservation)
		SetupBarRoutes(authenticated, h.Bar)
		SetupInvoiceRoutes(authenticated, h.Invoices)
		SetupReportRoutes(authenticated, h.Reports)
		SetupStaffRoutes(authenticated, h.Staff)
	}

	return engine, nil
}
