package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/salonbook/booking-api/internal/api/handler"
	"github.com/salonbook/booking-api/internal/api/middleware"
	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
	"github.com/salonbook/booking-api/internal/core/service"
	mongodb "github.com/salonbook/booking-api/internal/infrastructure/db/mongo"
	redisdb "github.com/salonbook/booking-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with every route registered. Each route
// declares its exact allowed-role set; resource-level ownership checks live
// in the booking service, behind these gates.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	tokens ports.TokenService,
	notifier service.Notifier,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	appointmentRepo := mongodb.NewAppointmentRepository(db)
	serviceRepo := mongodb.NewServiceRepository(db)
	listingCache := redisdb.NewListingCache(rdb)

	authService := service.NewAuthService(userRepo, tokens)
	bookingService := service.NewBookingService(appointmentRepo, serviceRepo, userRepo, notifier, log)
	catalogService := service.NewCatalogService(serviceRepo, listingCache, log)

	authHandler := handler.NewAuthHandler(authService)
	appointmentHandler := handler.NewAppointmentHandler(bookingService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authenticate := middleware.Auth(tokens)

	// --- Auth routes (public) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Appointments ---
	appointments := e.Group("/v1/appointments", authenticate)
	appointments.POST("", appointmentHandler.Create, middleware.RBAC(domain.RoleCustomer))
	appointments.GET("", appointmentHandler.List, middleware.RBAC(domain.RoleAdmin))
	appointments.GET("/:id", appointmentHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer))
	appointments.PUT("/:id", appointmentHandler.Update, middleware.RBAC(domain.RoleAdmin, domain.RoleCustomer))
	appointments.DELETE("/:id", appointmentHandler.Delete, middleware.RBAC(domain.RoleAdmin, domain.RoleCustomer))

	// --- Service catalog ---
	services := e.Group("/v1/services", authenticate)
	services.GET("", serviceHandler.List, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff, domain.RoleCustomer))
	services.POST("", serviceHandler.Create, middleware.RBAC(domain.RoleAdmin))
	services.PUT("/:id", serviceHandler.Update, middleware.RBAC(domain.RoleAdmin))
	services.DELETE("/:id", serviceHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
